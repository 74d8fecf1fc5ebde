package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"LeadPulse/internal/models"
)

// File persists replies as a single JSON array on disk. Each append re-reads
// the file, appends the record, and rewrites the whole array, so earlier
// records survive every write.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Append(ctx context.Context, rec models.ReplyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.read()
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reply archive: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write reply archive: %w", err)
	}
	return nil
}

func (f *File) Load(ctx context.Context) ([]models.ReplyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(), nil
}

// read returns the stored records, or an empty slice if the file is missing
// or unreadable. A corrupt file starts a fresh archive rather than blocking
// capture of new replies.
func (f *File) read() []models.ReplyRecord {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return []models.ReplyRecord{}
	}

	var records []models.ReplyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return []models.ReplyRecord{}
	}
	return records
}
