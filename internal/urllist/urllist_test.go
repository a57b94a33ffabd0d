package urllist

import (
	"strings"
	"testing"

	"github.com/nao1215/sitemapgen/internal/model"
)

// testDefaults are the defaults used by most subtests.
var testDefaults = Defaults{
	Priority:   0.5,
	ChangeFreq: model.ChangeFreqMonthly,
	LastMod:    "2026-08-01",
}

// TestParse tests URL list parsing.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("full columns override defaults", func(t *testing.T) {
		t.Parallel()

		input := "https://example.com/pricing 0.9 daily 2026-08-20\n"
		entries, err := Parse(strings.NewReader(input), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		e := entries[0]
		if e.Loc != "https://example.com/pricing" {
			t.Errorf("unexpected loc %q", e.Loc)
		}
		if e.Priority != 0.9 {
			t.Errorf("expected priority 0.9, got %v", e.Priority)
		}
		if e.ChangeFreq != model.ChangeFreqDaily {
			t.Errorf("expected daily, got %q", e.ChangeFreq)
		}
		if e.LastMod != "2026-08-20" {
			t.Errorf("expected lastmod 2026-08-20, got %q", e.LastMod)
		}
	})

	t.Run("omitted columns use defaults", func(t *testing.T) {
		t.Parallel()

		input := "https://example.com/changelog\n"
		entries, err := Parse(strings.NewReader(input), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		e := entries[0]
		if e.Priority != 0.5 || e.ChangeFreq != model.ChangeFreqMonthly || e.LastMod != "2026-08-01" {
			t.Errorf("defaults not applied: %+v", e)
		}
	})

	t.Run("comments and blank lines are skipped", func(t *testing.T) {
		t.Parallel()

		input := `# landing pages
https://example.com/

# more
https://example.com/about
`
		entries, err := Parse(strings.NewReader(input), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("URLs are canonicalized", func(t *testing.T) {
		t.Parallel()

		input := "HTTPS://Example.com/About/#team\n"
		entries, err := Parse(strings.NewReader(input), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Loc != "https://example.com/About" {
			t.Errorf("expected canonical loc, got %q", entries[0].Loc)
		}
	})

	t.Run("invalid lines are skipped, valid ones kept", func(t *testing.T) {
		t.Parallel()

		input := `not-a-url
ftp://example.com/file
https://example.com/good
https://example.com/bad-priority 1.5
https://example.com/bad-freq 0.5 sometimes
https://example.com/bad-date 0.5 daily 20-08-2026
https://example.com/also-good 0.7
`
		entries, err := Parse(strings.NewReader(input), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		if len(entries) != 2 {
			t.Fatalf("expected 2 surviving entries, got %d: %+v", len(entries), entries)
		}
		if entries[0].Loc != "https://example.com/good" {
			t.Errorf("unexpected first entry %q", entries[0].Loc)
		}
		if entries[1].Loc != "https://example.com/also-good" || entries[1].Priority != 0.7 {
			t.Errorf("unexpected second entry %+v", entries[1])
		}
	})

	t.Run("empty input yields no entries", func(t *testing.T) {
		t.Parallel()

		entries, err := Parse(strings.NewReader(""), testDefaults, nil)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}
