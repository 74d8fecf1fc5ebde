package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"LeadPulse/internal/catalog"
	"LeadPulse/internal/engine"
	"LeadPulse/internal/leads"
)

func newHandler() *Handler {
	registry := leads.NewRegistry()
	events := engine.NewBuffer(10)

	eng := engine.New(
		engine.Config{},
		catalog.Default(),
		registry,
		nil,
		nil,
		nil,
		zap.NewNop(),
	)

	return &Handler{
		Engine: eng,
		Sink:   events,
		Events: events,
		Log:    zap.NewNop(),
	}
}

func TestLoadLeads(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/leads",
		strings.NewReader("Name,Email\nAda,ada@example.com\nGrace,grace@example.com\n"))
	rec := httptest.NewRecorder()

	h.LoadLeads(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp["leads"])
}

func TestLoadLeads_BadCSV(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader("Nope,Columns\nx,y\n"))
	rec := httptest.NewRecorder()

	h.LoadLeads(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCampaignStatus(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/campaign/status", nil)
	rec := httptest.NewRecorder()

	h.CampaignStatus(rec, req)

	var status engine.Status
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, engine.PhaseIdle, status.Phase)
	assert.False(t, status.Running)
}

func TestStartCampaign_BadInput(t *testing.T) {
	h := newHandler()

	// no leads loaded yet
	req := httptest.NewRequest(http.MethodPost, "/campaign/start",
		strings.NewReader(`{"user":"bot@x.com","secret":"pw"}`))
	rec := httptest.NewRecorder()

	h.StartCampaign(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// malformed body
	req = httptest.NewRequest(http.MethodPost, "/campaign/start", strings.NewReader("{"))
	rec = httptest.NewRecorder()

	h.StartCampaign(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventLog(t *testing.T) {
	h := newHandler()
	h.Sink.Emit(engine.SeverityInfo, "Campaign started.")

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	rec := httptest.NewRecorder()

	h.EventLog(rec, req)

	var resp struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Lines, 1)
	assert.Contains(t, resp.Lines[0], "Campaign started.")
}
