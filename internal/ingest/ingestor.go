package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"LeadPulse/internal/archive"
	"LeadPulse/internal/leads"
	"LeadPulse/internal/mailer"
	"LeadPulse/internal/metrics"
	"LeadPulse/internal/models"
)

// Ingestor captures inbound replies: it fetches unseen mail, keeps only
// messages from known leads, archives them, and reports which lead addresses
// replied this poll.
type Ingestor struct {
	Transport mailer.Transport
	Registry  *leads.Registry
	Archive   archive.Archive
	Log       *zap.Logger

	// Now stamps archived records; nil means time.Now.
	Now func() time.Time
}

// PollUnseen runs one inbox poll and returns the set of lead addresses with
// at least one fresh reply, keyed by the address as loaded in the registry.
// A failed fetch yields an empty set: the error is logged and the caller
// retries on its next cycle. Archive failures are logged but do not drop the
// reply from the returned set.
func (i *Ingestor) PollUnseen(ctx context.Context, creds mailer.Credentials) map[string]struct{} {
	fresh := make(map[string]struct{})

	msgs, err := i.Transport.FetchUnseen(ctx, creds)
	if err != nil {
		i.Log.Warn("inbox poll failed, retrying next cycle", zap.Error(err))
		metrics.PollFailures.Inc()
		return fresh
	}

	for _, m := range msgs {
		lead, ok := i.Registry.Find(m.Sender)
		if !ok {
			continue
		}

		rec := models.ReplyRecord{
			Sender:    lead.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			Timestamp: i.now(),
		}
		if err := i.Archive.Append(ctx, rec); err != nil {
			i.Log.Error("failed to archive reply",
				zap.String("sender", lead.Email),
				zap.Error(err),
			)
		}

		metrics.RepliesCaptured.Inc()
		fresh[lead.Email] = struct{}{}
	}

	return fresh
}

func (i *Ingestor) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
