// Package urllist parses manually curated URL list files into sitemap
// entries. The format is line-oriented: one URL per line with optional
// whitespace-separated priority, change frequency, and last-modified
// columns. Blank lines and lines starting with "#" are skipped.
//
// Example:
//
//	# landing pages
//	https://example.com/           1.0  daily   2026-08-01
//	https://example.com/pricing    0.9  weekly
//	https://example.com/changelog
package urllist

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sitemapgen/internal/crawler"
	"github.com/nao1215/sitemapgen/internal/model"
)

// Defaults fill entry fields for lines that omit the optional columns.
type Defaults struct {
	// Priority is used when the line has no priority column.
	// model.PriorityUnset leaves the field unset.
	Priority float64

	// ChangeFreq is used when the line has no change frequency column.
	// Empty leaves the field unset.
	ChangeFreq model.ChangeFreq

	// LastMod is used when the line has no last-modified column.
	// Empty leaves the field unset.
	LastMod string
}

// Parse reads a URL list and returns the entries in file order.
//
// Invalid lines (bad URL, malformed column) are skipped with a warning
// rather than failing the whole file: a typo in one line should not
// discard a curated list. URLs are stored in canonical form so that
// assembly dedup against crawled entries works.
func Parse(r io.Reader, defaults Defaults, logger *slog.Logger) ([]model.SitemapEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries := make([]model.SitemapEntry, 0)
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line, defaults)
		if err != nil {
			logger.Warn("skipping URL list line", "line", lineNo, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	return entries, nil
}

// parseLine parses "URL [priority] [changefreq] [lastmod]".
func parseLine(line string, defaults Defaults) (model.SitemapEntry, error) {
	fields := strings.Fields(line)

	rawURL := fields[0]
	if !crawler.IsValidURL(rawURL) {
		return model.SitemapEntry{}, fmt.Errorf("invalid URL %q", rawURL)
	}

	entry := model.SitemapEntry{
		Loc:        crawler.Normalize(rawURL),
		LastMod:    defaults.LastMod,
		ChangeFreq: defaults.ChangeFreq,
		Priority:   defaults.Priority,
	}

	if len(fields) > 1 {
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return model.SitemapEntry{}, fmt.Errorf("invalid priority %q: %w", fields[1], err)
		}
		if p < 0 || p > 1 {
			return model.SitemapEntry{}, fmt.Errorf("priority %v out of range [0.0, 1.0]", p)
		}
		entry.Priority = p
	}

	if len(fields) > 2 {
		c, err := model.ParseChangeFreq(fields[2])
		if err != nil {
			return model.SitemapEntry{}, err
		}
		entry.ChangeFreq = c
	}

	if len(fields) > 3 {
		if _, err := time.Parse(model.LastModLayout, fields[3]); err != nil {
			return model.SitemapEntry{}, fmt.Errorf("invalid lastmod %q: %w", fields[3], err)
		}
		entry.LastMod = fields[3]
	}

	return entry, nil
}
