package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/sitemapgen/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose enables the per-file listing in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the full file listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// titleCaser capitalizes status tokens for display.
var titleCaser = cases.Title(language.English)

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.GenerateReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("Sitemap Generation Report\n")
	sb.WriteString(strings.Repeat("=", 25) + "\n\n")

	fmt.Fprintf(&sb, "Seed URL:        %s\n", report.SeedURL)
	fmt.Fprintf(&sb, "Date:            %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:        %s\n", report.Duration.Round(10*time.Millisecond))
	fmt.Fprintf(&sb, "Status:          %s\n\n", titleCaser.String(report.Status()))

	fmt.Fprintf(&sb, "Pages crawled:   %d\n", report.Stats.Visited)
	fmt.Fprintf(&sb, "Fetch failures:  %d\n", report.Stats.Failed)
	fmt.Fprintf(&sb, "Skipped links:   %d (external: %d, pattern: %d)\n",
		report.Stats.SkippedExternal+report.Stats.SkippedPattern,
		report.Stats.SkippedExternal,
		report.Stats.SkippedPattern)
	fmt.Fprintf(&sb, "Manual entries:  %d\n", report.ManualEntries)
	fmt.Fprintf(&sb, "Crawled entries: %d\n", report.CrawledEntries)
	fmt.Fprintf(&sb, "Total entries:   %d\n\n", report.TotalEntries)

	if report.IndexWritten {
		fmt.Fprintf(&sb, "Wrote %d sitemap files and 1 index file", report.ChunkCount())
	} else {
		fmt.Fprintf(&sb, "Wrote %d sitemap file(s)", report.ChunkCount())
	}
	if report.Compressed {
		sb.WriteString(" (gzip)")
	}
	sb.WriteString("\n")

	if w.verbose {
		sb.WriteString("\nFiles:\n")
		for _, f := range report.Files {
			fmt.Fprintf(&sb, "  %s\n", f)
		}
	}

	return w.output.Write([]byte(sb.String()))
}
