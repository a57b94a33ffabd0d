package model

import (
	"fmt"
	"time"
)

// ChangeFreq is the sitemaps.org change frequency hint for a URL.
// It describes how often the page content is expected to change.
type ChangeFreq string

// Valid change frequency values per the sitemaps.org 0.9 protocol.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// changeFreqs maps the valid protocol values for parsing and validation.
var changeFreqs = map[ChangeFreq]bool{
	ChangeFreqAlways:  true,
	ChangeFreqHourly:  true,
	ChangeFreqDaily:   true,
	ChangeFreqWeekly:  true,
	ChangeFreqMonthly: true,
	ChangeFreqYearly:  true,
	ChangeFreqNever:   true,
}

// IsValid reports whether the value is one of the protocol's seven
// change frequencies. The empty string is not valid; callers that want
// "unset" should leave the field empty and skip rendering it.
func (c ChangeFreq) IsValid() bool {
	return changeFreqs[c]
}

// String returns the protocol string representation.
func (c ChangeFreq) String() string {
	return string(c)
}

// ParseChangeFreq parses a change frequency string.
// It returns an error for anything that is not one of the seven
// protocol values.
func ParseChangeFreq(s string) (ChangeFreq, error) {
	c := ChangeFreq(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid change frequency %q (valid: always, hourly, daily, weekly, monthly, yearly, never)", s)
	}
	return c, nil
}

// PriorityUnset marks an entry whose priority should not be rendered.
// Priority 0.0 is a legal protocol value, so the zero value cannot double
// as "absent"; we use a negative sentinel instead.
const PriorityUnset = -1.0

// LastModLayout is the date layout used for <lastmod> values.
// The protocol also allows full W3C datetimes, but the date-only form is
// sufficient for a generator that stamps entries with the crawl date.
const LastModLayout = "2006-01-02"

// SitemapEntry is a single <url> record destined for a sitemap file.
//
// Loc is always the canonical absolute URL and serves as the entry's
// identity: two entries with the same Loc are never both present in the
// final output set.
type SitemapEntry struct {
	// Loc is the canonical absolute URL of the page.
	Loc string `json:"loc"`

	// LastMod is the last-modification date in YYYY-MM-DD form.
	// Empty means unknown; the renderer omits the element.
	LastMod string `json:"lastmod,omitempty"`

	// ChangeFreq is the expected change frequency hint.
	// Empty means unset; the renderer omits the element.
	ChangeFreq ChangeFreq `json:"changefreq,omitempty"`

	// Priority is the relative importance of the page in [0.0, 1.0].
	// PriorityUnset (negative) means unset; the renderer omits the element.
	Priority float64 `json:"priority,omitempty"`
}

// HasPriority reports whether the entry carries a renderable priority.
func (e SitemapEntry) HasPriority() bool {
	return e.Priority >= 0
}

// Validate checks the entry's optional fields against the protocol.
// Loc validity is the canonicalizer's responsibility and is not
// re-checked here.
func (e SitemapEntry) Validate() error {
	if e.LastMod != "" {
		if _, err := time.Parse(LastModLayout, e.LastMod); err != nil {
			return fmt.Errorf("invalid lastmod %q: %w", e.LastMod, err)
		}
	}
	if e.ChangeFreq != "" && !e.ChangeFreq.IsValid() {
		return fmt.Errorf("invalid change frequency %q", e.ChangeFreq)
	}
	if e.HasPriority() && e.Priority > 1.0 {
		return fmt.Errorf("priority %v out of range [0.0, 1.0]", e.Priority)
	}
	return nil
}
