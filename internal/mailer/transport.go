package mailer

import (
	"context"

	"LeadPulse/internal/models"
)

// Credentials is the mailbox login used for both sending and polling.
type Credentials struct {
	User   string `json:"user"`
	Secret string `json:"secret"`
}

func (c Credentials) Complete() bool {
	return c.User != "" && c.Secret != ""
}

// Transport is the mail service consumed by the campaign engine: credential
// validation, outbound send, and unseen-message fetch. Once a message has
// been returned by FetchUnseen it is no longer unseen on the next call; the
// server's seen flag is the only read tracking.
type Transport interface {
	ValidateCredentials(ctx context.Context, creds Credentials) error
	SendMessage(ctx context.Context, creds Credentials, to, subject, body string) error
	FetchUnseen(ctx context.Context, creds Credentials) ([]models.InboundMessage, error)
}

// Mail is the production Transport: SMTP for validation and sends, IMAP for
// validation and unseen fetches.
type Mail struct {
	SMTP *SMTPTransport
	IMAP *IMAPTransport
}

func (m *Mail) ValidateCredentials(ctx context.Context, creds Credentials) error {
	if err := m.SMTP.Validate(ctx, creds); err != nil {
		return err
	}
	return m.IMAP.Validate(ctx, creds)
}

func (m *Mail) SendMessage(ctx context.Context, creds Credentials, to, subject, body string) error {
	return m.SMTP.Send(ctx, creds, to, subject, body)
}

func (m *Mail) FetchUnseen(ctx context.Context, creds Credentials) ([]models.InboundMessage, error) {
	return m.IMAP.FetchUnseen(ctx, creds)
}
