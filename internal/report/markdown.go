package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/sitemapgen/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is designed for CI job summaries and documentation.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe tables and lists beat hand-built
// string concatenation once the report has more than one section.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.GenerateReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Sitemap Generation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Date", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Status", titleCaser.String(report.Status())},
		},
	})
	md.PlainText("")

	md.H2("Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages crawled", strconv.Itoa(report.Stats.Visited)},
			{"Fetch failures", strconv.Itoa(report.Stats.Failed)},
			{"Links skipped (external)", strconv.Itoa(report.Stats.SkippedExternal)},
			{"Links skipped (pattern)", strconv.Itoa(report.Stats.SkippedPattern)},
			{"Manual entries", strconv.Itoa(report.ManualEntries)},
			{"Crawled entries", strconv.Itoa(report.CrawledEntries)},
			{"**Total entries**", "**" + strconv.Itoa(report.TotalEntries) + "**"},
		},
	})
	md.PlainText("")

	md.H2("Output Files")
	md.PlainText("")
	md.BulletList(report.Files...)
	md.PlainText("")

	if report.Stats.Failed > 0 {
		md.Warningf("%d pages failed to fetch and were recorded as leaves.", report.Stats.Failed)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
