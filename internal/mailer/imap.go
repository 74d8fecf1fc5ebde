package mailer

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"LeadPulse/internal/models"
)

// IMAPTransport reads unseen mail from the campaign mailbox. Fetching a
// message marks it seen on the server, so each message is returned once.
type IMAPTransport struct {
	Addr    string
	Mailbox string
	Timeout time.Duration
}

// Validate checks the login by dialing and authenticating.
func (t *IMAPTransport) Validate(ctx context.Context, creds Credentials) error {
	c, err := t.dial()
	if err != nil {
		return fmt.Errorf("imap dial failed: %w", err)
	}
	defer c.Logout()

	if err := c.Login(creds.User, creds.Secret); err != nil {
		return fmt.Errorf("imap login failed: %w", err)
	}
	return nil
}

func (t *IMAPTransport) FetchUnseen(ctx context.Context, creds Credentials) ([]models.InboundMessage, error) {
	c, err := t.dial()
	if err != nil {
		return nil, fmt.Errorf("imap dial failed: %w", err)
	}
	defer c.Logout()

	if err := c.Login(creds.User, creds.Secret); err != nil {
		return nil, fmt.Errorf("imap login failed: %w", err)
	}

	mailbox := t.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, false); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var inbound []models.InboundMessage
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		inbound = append(inbound, parseMessage(body))
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	return inbound, nil
}

func (t *IMAPTransport) dial() (*client.Client, error) {
	dialer := &net.Dialer{Timeout: t.timeout()}

	c, err := client.DialWithDialerTLS(dialer, t.Addr, nil)
	if err != nil {
		return nil, err
	}
	c.Timeout = t.timeout()
	return c, nil
}

func (t *IMAPTransport) timeout() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return 30 * time.Second
}

// parseMessage extracts sender, subject, and the first text/plain part.
// Decode failures leave the field empty rather than failing the poll.
func parseMessage(r io.Reader) models.InboundMessage {
	var msg models.InboundMessage

	mr, err := mail.CreateReader(r)
	if err != nil {
		return msg
	}

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		msg.Sender = addrs[0].Address
	}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	}

	for {
		p, err := mr.NextPart()
		if err != nil {
			break
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		ct, _, err := h.ContentType()
		if err != nil || ct != "text/plain" {
			continue
		}

		if b, err := io.ReadAll(p.Body); err == nil {
			msg.Body = string(b)
		}
		break
	}

	return msg
}
