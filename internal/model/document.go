package model

import (
	"time"

	"github.com/ppiankov/patentia/internal/patent"
)

// Document is the record produced for one input page
type Document struct {
	Source   string      `json:"source"`             // Input path, "-" for stdin
	Digest   string      `json:"digest"`             // SHA-256 of the decoded HTML
	ParsedAt time.Time   `json:"parsed_at"`          // When the page was parsed
	Cached   bool        `json:"cached,omitempty"`   // Whether the result came from the cache
	Warnings []string    `json:"warnings,omitempty"` // Diagnostics emitted while parsing
	Patent   patent.Node `json:"patent"`             // Parsed patent data
}

// SectionCounts returns the number of claims and description parts
func (d *Document) SectionCounts() (claims int, parts int) {
	if c, ok := d.Patent["claims"].(map[string]any); ok {
		claims = listLen(c["claims"])
	} else if c, ok := d.Patent["claims"].(patent.Node); ok {
		claims = listLen(c["claims"])
	}

	if desc, ok := d.Patent["description"].(map[string]any); ok {
		parts = listLen(desc["parts"])
	} else if desc, ok := d.Patent["description"].(patent.Node); ok {
		parts = listLen(desc["parts"])
	}

	return claims, parts
}

// listLen handles both freshly parsed lists and lists decoded from JSON
func listLen(v any) int {
	switch t := v.(type) {
	case []patent.Node:
		return len(t)
	case []any:
		return len(t)
	}
	return 0
}
