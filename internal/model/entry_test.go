package model

import "testing"

// TestParseChangeFreq tests change frequency parsing and validation.
func TestParseChangeFreq(t *testing.T) {
	t.Parallel()

	t.Run("accepts all protocol values", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"always", "hourly", "daily", "weekly", "monthly", "yearly", "never"} {
			c, err := ParseChangeFreq(s)
			if err != nil {
				t.Errorf("ParseChangeFreq(%q) returned error: %v", s, err)
			}
			if c.String() != s {
				t.Errorf("expected %q, got %q", s, c.String())
			}
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "sometimes", "WEEKLY", "week"} {
			if _, err := ParseChangeFreq(s); err == nil {
				t.Errorf("ParseChangeFreq(%q) should fail", s)
			}
		}
	})

	t.Run("empty change frequency is not valid", func(t *testing.T) {
		t.Parallel()

		if ChangeFreq("").IsValid() {
			t.Error("empty ChangeFreq should not be valid")
		}
	})
}

// TestSitemapEntryValidate tests optional field validation.
func TestSitemapEntryValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid full entry", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{
			Loc:        "https://example.com/about",
			LastMod:    "2026-08-23",
			ChangeFreq: ChangeFreqWeekly,
			Priority:   0.8,
		}
		if err := e.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unset optional fields are valid", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{Loc: "https://example.com/", Priority: PriorityUnset}
		if err := e.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if e.HasPriority() {
			t.Error("PriorityUnset should not count as a priority")
		}
	})

	t.Run("priority zero is a legal value", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{Loc: "https://example.com/", Priority: 0.0}
		if err := e.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !e.HasPriority() {
			t.Error("priority 0.0 should count as set")
		}
	})

	t.Run("rejects bad lastmod", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{Loc: "https://example.com/", LastMod: "23-08-2026", Priority: PriorityUnset}
		if err := e.Validate(); err == nil {
			t.Error("expected error for malformed lastmod")
		}
	})

	t.Run("rejects priority above one", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{Loc: "https://example.com/", Priority: 1.5}
		if err := e.Validate(); err == nil {
			t.Error("expected error for out-of-range priority")
		}
	})

	t.Run("rejects bad change frequency", func(t *testing.T) {
		t.Parallel()

		e := SitemapEntry{Loc: "https://example.com/", ChangeFreq: "fortnightly", Priority: PriorityUnset}
		if err := e.Validate(); err == nil {
			t.Error("expected error for invalid change frequency")
		}
	})
}
