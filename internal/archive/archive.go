package archive

import (
	"context"

	"LeadPulse/internal/models"
)

// Archive is the append-only reply log. Appends are cumulative: records
// written earlier are never lost or reordered by a later append.
type Archive interface {
	Append(ctx context.Context, rec models.ReplyRecord) error
	Load(ctx context.Context) ([]models.ReplyRecord, error)
}
