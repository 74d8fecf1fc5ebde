package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gopkg.in/gomail.v2"
)

// SMTPTransport sends campaign mail over SMTP. Every call is bounded by
// Timeout, including the retries: transient dial/send errors are retried
// with exponential backoff inside a single SendMessage attempt.
type SMTPTransport struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Validate checks the login by dialing and authenticating, without sending.
func (s *SMTPTransport) Validate(ctx context.Context, creds Credentials) error {
	err := s.run(ctx, func() error {
		c, err := s.dialer(creds).Dial()
		if err != nil {
			return err
		}
		return c.Close()
	})
	if err != nil {
		return fmt.Errorf("smtp login failed: %w", err)
	}
	return nil
}

func (s *SMTPTransport) Send(ctx context.Context, creds Credentials, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", creds.User)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	err := s.run(ctx, func() error {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxElapsedTime = s.timeout()

		return backoff.Retry(func() error {
			return s.dialer(creds).DialAndSend(m)
		}, b)
	})
	if err != nil {
		return fmt.Errorf("smtp send error: %w", err)
	}
	return nil
}

func (s *SMTPTransport) dialer(creds Credentials) *gomail.Dialer {
	d := gomail.NewDialer(s.Host, s.Port, creds.User, creds.Secret)
	d.SSL = s.Port == 465
	return d
}

func (s *SMTPTransport) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 30 * time.Second
}

// run executes op with a hard deadline. gomail offers no dial timeout of its
// own, so a hung connection is abandoned once the deadline passes.
func (s *SMTPTransport) run(ctx context.Context, op func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- op() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
