package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Group selects which template group a render draws from.
type Group string

const (
	GroupInitial   Group = "initial"
	GroupAutoReply Group = "auto_reply"
	GroupFollowUp  Group = "follow_up"
)

// Initial is the first outreach message, the only template with a subject.
type Initial struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Catalog holds all outreach templates for a campaign. Immutable after Load.
//
// Auto-reply and follow-up templates are ordered: the template at position i
// is used for a lead whose corresponding counter is at i.
type Catalog struct {
	Initial     Initial  `json:"initial"`
	AutoReplies []string `json:"auto_replies"`
	FollowUps   []string `json:"follow_ups"`
}

// Default returns the built-in catalog used when the external source is
// missing or structurally invalid.
func Default() *Catalog {
	return &Catalog{
		Initial:     Initial{Subject: "Hello", Body: "Hi {name},"},
		AutoReplies: []string{"Thanks {name}, glad to hear from you."},
		FollowUps:   []string{"Just checking in {name}"},
	}
}

// Load reads the catalog file at path. It never fails: any I/O error, parse
// error, or missing template group falls back to the built-in defaults, with
// the reason logged.
func Load(path string, logger *zap.Logger) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("catalog unreadable, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default()
	}

	// Pointer fields so a group that is absent from the document can be told
	// apart from one that is present but empty.
	var doc struct {
		Initial     *Initial  `json:"initial"`
		AutoReplies *[]string `json:"auto_replies"`
		FollowUps   *[]string `json:"follow_ups"`
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn("catalog malformed, using built-in defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return Default()
	}

	if doc.Initial == nil || doc.AutoReplies == nil || doc.FollowUps == nil {
		logger.Warn("catalog missing required template group, using built-in defaults",
			zap.String("path", path),
		)
		return Default()
	}

	return &Catalog{
		Initial:     *doc.Initial,
		AutoReplies: *doc.AutoReplies,
		FollowUps:   *doc.FollowUps,
	}
}

// Subject returns the initial outreach subject line. Auto-replies and
// follow-ups derive their subjects from it.
func (c *Catalog) Subject() string {
	return c.Initial.Subject
}

// Render substitutes the lead's name into the group's template at index.
// It never fails: an index past the end of the group, or an empty template,
// yields a deterministic generic message for that group so a bad catalog
// cannot stall the campaign.
func (c *Catalog) Render(g Group, index int, name string) string {
	tmpl, ok := c.templateAt(g, index)
	if !ok || strings.TrimSpace(tmpl) == "" {
		return fallback(g, index, name)
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}

func (c *Catalog) templateAt(g Group, index int) (string, bool) {
	switch g {
	case GroupInitial:
		if index != 0 {
			return "", false
		}
		return c.Initial.Body, true
	case GroupAutoReply:
		if index < 0 || index >= len(c.AutoReplies) {
			return "", false
		}
		return c.AutoReplies[index], true
	case GroupFollowUp:
		if index < 0 || index >= len(c.FollowUps) {
			return "", false
		}
		return c.FollowUps[index], true
	}
	return "", false
}

func fallback(g Group, index int, name string) string {
	switch g {
	case GroupAutoReply:
		return fmt.Sprintf("Thank you %s, this is auto reply #%d", name, index+1)
	case GroupFollowUp:
		return fmt.Sprintf("Hi %s, just checking in (follow-up #%d)", name, index+1)
	default:
		return fmt.Sprintf("Hi %s, this is message #%d", name, index+1)
	}
}
