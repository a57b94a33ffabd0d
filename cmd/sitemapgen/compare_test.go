package main

import (
	"testing"
	"time"

	"github.com/nao1215/sitemapgen/internal/database"
	"github.com/nao1215/sitemapgen/internal/model"
)

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "compare [host]" {
			t.Errorf("expected use 'compare [host]', got %q", cmd.Use)
		}
	})

	t.Run("has list flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("list") == nil {
			t.Error("expected list flag")
		}
		if cmd.Flags().Lookup("list-hosts") == nil {
			t.Error("expected list-hosts flag")
		}
	})

	t.Run("has with-run-id flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("with-run-id") == nil {
			t.Error("expected with-run-id flag")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Error("expected json flag")
		}
	})
}

// TestNormalizeHost tests host argument normalization.
func TestNormalizeHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		arg  string
		want string
	}{
		{
			name: "bare host",
			arg:  "example.com",
			want: "example.com",
		},
		{
			name: "full URL",
			arg:  "https://example.com/docs/",
			want: "example.com",
		},
		{
			name: "URL with port",
			arg:  "http://example.com:8080/",
			want: "example.com:8080",
		},
		{
			name: "host with path",
			arg:  "example.com/docs",
			want: "example.com",
		},
		{
			name: "uppercase host is lowered",
			arg:  "EXAMPLE.COM",
			want: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := normalizeHost(tt.arg)
			if got != tt.want {
				t.Errorf("normalizeHost(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

// TestCompareRuns tests the run diff logic.
func TestCompareRuns(t *testing.T) {
	t.Parallel()

	previous := database.RunSummary{
		ID:           1,
		StartedAt:    time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		PagesCrawled: 3,
	}
	current := database.RunSummary{
		ID:           2,
		StartedAt:    time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC),
		PagesCrawled: 3,
	}

	previousPages := []model.PageRecord{
		{URL: "https://example.com/", ContentHash: "aaa"},
		{URL: "https://example.com/about", ContentHash: "bbb"},
		{URL: "https://example.com/old", ContentHash: "ccc"},
	}
	currentPages := []model.PageRecord{
		{URL: "https://example.com/", ContentHash: "aaa"},
		{URL: "https://example.com/about", ContentHash: "ddd"},
		{URL: "https://example.com/new", ContentHash: "eee"},
	}

	result := compareRuns("example.com", previous, current, previousPages, currentPages)

	t.Run("detects added pages", func(t *testing.T) {
		t.Parallel()
		if len(result.AddedURLs) != 1 || result.AddedURLs[0] != "https://example.com/new" {
			t.Errorf("expected one added URL, got %v", result.AddedURLs)
		}
	})

	t.Run("detects removed pages", func(t *testing.T) {
		t.Parallel()
		if len(result.RemovedURLs) != 1 || result.RemovedURLs[0] != "https://example.com/old" {
			t.Errorf("expected one removed URL, got %v", result.RemovedURLs)
		}
	})

	t.Run("detects changed pages", func(t *testing.T) {
		t.Parallel()
		if len(result.ChangedURLs) != 1 || result.ChangedURLs[0] != "https://example.com/about" {
			t.Errorf("expected one changed URL, got %v", result.ChangedURLs)
		}
	})

	t.Run("counts unchanged pages", func(t *testing.T) {
		t.Parallel()
		if result.UnchangedCount != 1 {
			t.Errorf("expected 1 unchanged page, got %d", result.UnchangedCount)
		}
	})

	t.Run("carries run metadata", func(t *testing.T) {
		t.Parallel()
		if result.PreviousRun.ID != 1 || result.CurrentRun.ID != 2 {
			t.Errorf("unexpected run metadata: %+v / %+v", result.PreviousRun, result.CurrentRun)
		}
	})
}

// TestCompareRunsIgnoresMissingHashes tests that pages without a stored
// content hash are not reported as changed.
func TestCompareRunsIgnoresMissingHashes(t *testing.T) {
	t.Parallel()

	previousPages := []model.PageRecord{
		{URL: "https://example.com/", ContentHash: ""},
	}
	currentPages := []model.PageRecord{
		{URL: "https://example.com/", ContentHash: "abc"},
	}

	result := compareRuns("example.com",
		database.RunSummary{ID: 1}, database.RunSummary{ID: 2},
		previousPages, currentPages)

	if len(result.ChangedURLs) != 0 {
		t.Errorf("expected no changed URLs, got %v", result.ChangedURLs)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged page, got %d", result.UnchangedCount)
	}
}
