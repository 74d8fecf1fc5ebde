package models

import "time"

// Lead is a single campaign recipient. Immutable once loaded; Email is the
// unique key within a campaign.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InboundMessage is one unseen message pulled from the inbox. Body is the
// plain-text part only; empty if no text part could be decoded.
type InboundMessage struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ReplyRecord is a captured reply from a known lead, as persisted in the
// reply archive. Records are append-only and never mutated.
type ReplyRecord struct {
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}
