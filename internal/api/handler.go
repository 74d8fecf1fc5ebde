package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"LeadPulse/internal/csvparser"
	"LeadPulse/internal/engine"
	"LeadPulse/internal/mailer"
)

// Handler is the campaign control surface: it loads leads, starts and stops
// the campaign, and exposes status and recent event lines.
type Handler struct {
	Engine *engine.Engine
	Sink   engine.Sink
	Events *engine.Buffer
	Log    *zap.Logger
}

// LoadLeads reads a CSV body with Name and Email columns and replaces the
// active lead list. Rejected while a campaign is running.
func (h *Handler) LoadLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := csvparser.ParseLeads(r.Body, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Engine.LoadLeads(leads); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	h.Log.Info("leads loaded", zap.Int("count", len(leads)))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"leads": len(leads),
	})
}

// StartCampaign validates credentials and begins the campaign. The response
// is sent after the initial sends have completed.
func (h *Handler) StartCampaign(w http.ResponseWriter, r *http.Request) {
	var creds mailer.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Engine.Start(r.Context(), creds, h.Sink); err != nil {
		switch {
		case errors.Is(err, engine.ErrAlreadyRunning):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, engine.ErrNoLeads), errors.Is(err, engine.ErrMissingCredentials):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			// credential validation failure
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
		return
	}

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(h.Engine.Status())
}

func (h *Handler) StopCampaign(w http.ResponseWriter, r *http.Request) {
	h.Engine.Stop()

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(h.Engine.Status())
}

func (h *Handler) CampaignStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(h.Engine.Status())
}

// EventLog returns the most recent campaign event lines, oldest first.
func (h *Handler) EventLog(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lines": h.Events.Lines(),
	})
}
