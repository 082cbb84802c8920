// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the calendar-date form used on disk and on the wire.
const dateLayout = "2006-01-02"

// Date is a calendar date without time of day. It marshals to and from
// "YYYY-MM-DD" so that stored papers round-trip without loss.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String returns the date as "YYYY-MM-DD", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. It also accepts full RFC 3339
// timestamps and keeps only their date part.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	*d = NewDate(t)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Paper is one discovered arXiv document. The JSON field names are the
// persisted and wire format of a paper record.
type Paper struct {
	// ID is the arXiv short identifier, version included (e.g. "1706.03762v7").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the first-version publication date.
	Published Date `json:"published" yaml:"published"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL locates the PDF rendition.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// PrimaryCategory is the arXiv taxonomy tag (e.g. "cs.LG").
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`
}

// Validate reports the first missing field, or nil when every field is set.
func (p Paper) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("paper is missing id")
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("paper %s is missing title", p.ID)
	case len(p.Authors) == 0:
		return fmt.Errorf("paper %s is missing authors", p.ID)
	case p.Published.IsZero():
		return fmt.Errorf("paper %s is missing published date", p.ID)
	case strings.TrimSpace(p.Summary) == "":
		return fmt.Errorf("paper %s is missing summary", p.ID)
	case strings.TrimSpace(p.PDFURL) == "":
		return fmt.Errorf("paper %s is missing pdf_url", p.ID)
	case strings.TrimSpace(p.PrimaryCategory) == "":
		return fmt.Errorf("paper %s is missing primary_category", p.ID)
	}
	return nil
}
