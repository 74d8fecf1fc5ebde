package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeadPulse/internal/models"
)

func record(sender string, at time.Time) models.ReplyRecord {
	return models.ReplyRecord{
		Sender:    sender,
		Subject:   "Re: Hello",
		Body:      "Sounds good",
		Timestamp: at,
	}
}

func TestFile_AppendsAreCumulative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.json")
	f := NewFile(path)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.Append(ctx, record("a@x.com", base)))
	require.NoError(t, f.Append(ctx, record("b@x.com", base.Add(time.Minute))))
	require.NoError(t, f.Append(ctx, record("a@x.com", base.Add(2*time.Minute))))

	// reload from a fresh handle, as after a restart
	records, err := NewFile(path).Load(ctx)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "a@x.com", records[0].Sender)
	assert.Equal(t, "b@x.com", records[1].Sender)
	assert.Equal(t, "a@x.com", records[2].Sender)
	assert.True(t, records[2].Timestamp.After(records[0].Timestamp))
}

func TestFile_LoadMissingFile(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "replies.json"))

	records, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFile_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	f := NewFile(path)
	ctx := context.Background()

	require.NoError(t, f.Append(ctx, record("a@x.com", time.Now())))

	records, err := f.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
