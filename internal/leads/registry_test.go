package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeadPulse/internal/models"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Count())
	assert.Equal(t, "", r.Lookup("ada@example.com"))

	r.Replace([]models.Lead{
		{Name: "Ada", Email: "ada@example.com"},
		{Name: "Grace", Email: "grace@example.com"},
	})

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, "Ada", r.Lookup("ada@example.com"))
	assert.Equal(t, "", r.Lookup("unknown@example.com"))
}

func TestRegistry_FindCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Replace([]models.Lead{{Name: "Ada", Email: "Ada@Example.com"}})

	lead, ok := r.Find("ada@example.com")
	require.True(t, ok)
	// canonical address as loaded, not as queried
	assert.Equal(t, "Ada@Example.com", lead.Email)

	_, ok = r.Find("nobody@example.com")
	assert.False(t, ok)
}

func TestRegistry_ReplaceSwapsList(t *testing.T) {
	r := NewRegistry()
	r.Replace([]models.Lead{{Name: "Ada", Email: "ada@example.com"}})
	r.Replace([]models.Lead{{Name: "Grace", Email: "grace@example.com"}})

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, "", r.Lookup("ada@example.com"))
	assert.Equal(t, "Grace", r.Lookup("grace@example.com"))
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Replace([]models.Lead{{Name: "Ada", Email: "ada@example.com"}})

	all := r.All()
	all[0].Name = "mutated"

	assert.Equal(t, "Ada", r.Lookup("ada@example.com"))
}
