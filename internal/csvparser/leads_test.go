package csvparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeads(t *testing.T) {
	csv := "Name,Email\nAda,ada@example.com\nGrace,grace@example.com\n"

	leads, err := ParseLeads(strings.NewReader(csv), 0)
	require.NoError(t, err)

	require.Len(t, leads, 2)
	assert.Equal(t, "Ada", leads[0].Name)
	assert.Equal(t, "ada@example.com", leads[0].Email)
	assert.Equal(t, "Grace", leads[1].Name)
}

func TestParseLeads_HeaderCaseInsensitive(t *testing.T) {
	csv := "EMAIL,name\nada@example.com,Ada\n"

	leads, err := ParseLeads(strings.NewReader(csv), 0)
	require.NoError(t, err)

	require.Len(t, leads, 1)
	assert.Equal(t, "Ada", leads[0].Name)
	assert.Equal(t, "ada@example.com", leads[0].Email)
}

func TestParseLeads_SkipsBadRows(t *testing.T) {
	csv := "Name,Email\n" +
		"Ada,ada@example.com\n" +
		"NoEmail,\n" +
		"onlyonecolumn\n" +
		"Too,many,columns\n" +
		"Grace,grace@example.com\n"

	leads, err := ParseLeads(strings.NewReader(csv), 0)
	require.NoError(t, err)

	// rows with a missing email or the wrong column count are dropped, the
	// rest of the upload survives
	require.Len(t, leads, 2)
	assert.Equal(t, "ada@example.com", leads[0].Email)
	assert.Equal(t, "grace@example.com", leads[1].Email)
}

func TestParseLeads_MaxRows(t *testing.T) {
	csv := "Name,Email\nA,a@x.com\nB,b@x.com\nC,c@x.com\n"

	leads, err := ParseLeads(strings.NewReader(csv), 2)
	require.NoError(t, err)

	assert.Len(t, leads, 2)
}

func TestParseLeads_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing email column", "Name,Address\nAda,ada@example.com\n"},
		{"missing name column", "Email\nada@example.com\n"},
		{"header only", "Name,Email\n"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLeads(strings.NewReader(tt.csv), 0)
			assert.Error(t, err)
		})
	}
}
