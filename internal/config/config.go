package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// ----------------------------
	// SMTP
	// ----------------------------
	SMTPHost    string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort    int           `envconfig:"SMTP_PORT" default:"465"`
	SMTPTimeout time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`

	// ----------------------------
	// IMAP
	// ----------------------------
	IMAPAddr    string        `envconfig:"IMAP_ADDR" default:"imap.gmail.com:993"`
	IMAPMailbox string        `envconfig:"IMAP_MAILBOX" default:"INBOX"`
	IMAPTimeout time.Duration `envconfig:"IMAP_TIMEOUT" default:"30s"`

	// ----------------------------
	// Campaign
	// ----------------------------
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`
	FollowupInterval time.Duration `envconfig:"FOLLOWUP_INTERVAL" default:"5m"`
	AutoReplyLimit   int           `envconfig:"AUTO_REPLY_LIMIT" default:"4"`
	FollowupLimit    int           `envconfig:"FOLLOWUP_LIMIT" default:"4"`
	RateLimit        int           `envconfig:"RATE_LIMIT" default:"10"`

	// ----------------------------
	// Storage
	// ----------------------------
	CatalogPath string `envconfig:"CATALOG_PATH" default:"messages.json"`
	ArchivePath string `envconfig:"ARCHIVE_PATH" default:"replies.json"`
	// When set, replies are archived in Postgres instead of the local file.
	ArchiveDSN string `envconfig:"ARCHIVE_DSN" default:""`

	// ----------------------------
	// HTTP API
	// ----------------------------
	APIPort string `envconfig:"API_PORT" default:"8080"`

	// ----------------------------
	// Metrics
	// ----------------------------
	MetricsPort string `envconfig:"METRICS_PORT" default:"9090"`
}

func Load() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return &cfg, err
}
