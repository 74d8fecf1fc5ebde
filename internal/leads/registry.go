package leads

import (
	"strings"
	"sync"

	"LeadPulse/internal/models"
)

// Registry holds the ordered lead list for the active campaign. It is a pure
// data holder: the "no reload while running" rule is enforced by the engine,
// which owns the running flag.
type Registry struct {
	mu    sync.RWMutex
	leads []models.Lead
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps in a new lead list, discarding the previous one.
func (r *Registry) Replace(leads []models.Lead) {
	cp := make([]models.Lead, len(leads))
	copy(cp, leads)

	r.mu.Lock()
	r.leads = cp
	r.mu.Unlock()
}

// Find returns the lead for an address. Matching is case-insensitive; the
// returned lead carries the address exactly as loaded, which is the key the
// engine tracks state under.
func (r *Registry) Find(email string) (models.Lead, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.leads {
		if strings.EqualFold(l.Email, email) {
			return l, true
		}
	}
	return models.Lead{}, false
}

// Lookup returns the display name for a known address, or "" if unknown.
func (r *Registry) Lookup(email string) string {
	l, _ := r.Find(email)
	return l.Name
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.leads)
}

// All returns a copy of the lead list in load order.
func (r *Registry) All() []models.Lead {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make([]models.Lead, len(r.leads))
	copy(cp, r.leads)
	return cp
}
