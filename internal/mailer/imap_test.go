package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func raw(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

func TestParseMessage_SinglePart(t *testing.T) {
	msg := parseMessage(strings.NewReader(raw(
		"From: Ada <a@x.com>",
		"To: bot@x.com",
		"Subject: Re: Hello",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Sounds good!",
	)))

	assert.Equal(t, "a@x.com", msg.Sender)
	assert.Equal(t, "Re: Hello", msg.Subject)
	assert.Equal(t, "Sounds good!", strings.TrimSpace(msg.Body))
}

func TestParseMessage_MultipartPrefersPlainText(t *testing.T) {
	msg := parseMessage(strings.NewReader(raw(
		"From: a@x.com",
		"Subject: Re: Hello",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain",
		"",
		"plain body",
		"--b1",
		"Content-Type: text/html",
		"",
		"<p>html body</p>",
		"--b1--",
	)))

	assert.Equal(t, "a@x.com", msg.Sender)
	assert.Equal(t, "plain body", strings.TrimSpace(msg.Body))
}

func TestParseMessage_NoPlainPart(t *testing.T) {
	msg := parseMessage(strings.NewReader(raw(
		"From: a@x.com",
		"Subject: Re: Hello",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/html",
		"",
		"<p>html only</p>",
		"--b1--",
	)))

	assert.Equal(t, "a@x.com", msg.Sender)
	assert.Equal(t, "", msg.Body)
}

func TestParseMessage_Garbage(t *testing.T) {
	msg := parseMessage(strings.NewReader("\x00\x01 not a mail message"))

	assert.Equal(t, "", msg.Sender)
	assert.Equal(t, "", msg.Body)
}

func TestCredentials_Complete(t *testing.T) {
	assert.True(t, Credentials{User: "u", Secret: "s"}.Complete())
	assert.False(t, Credentials{User: "u"}.Complete())
	assert.False(t, Credentials{Secret: "s"}.Complete())
	assert.False(t, Credentials{}.Complete())
}
