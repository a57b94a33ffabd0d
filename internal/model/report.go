package model

import "time"

// GenerateReport summarizes a completed sitemap generation run.
// It is the payload handed to the report writers and, when history is
// enabled, persisted alongside the per-page records.
type GenerateReport struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// Host is the seed URL's host, used as the site identity in the
	// history database.
	Host string `json:"host"`

	// GeneratedAt is when generation started.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration"`

	// Stats holds the crawl counters.
	Stats CrawlStats `json:"stats"`

	// ManualEntries is the number of entries supplied via the URL list.
	ManualEntries int `json:"manual_entries"`

	// CrawledEntries is the number of entries the crawler discovered.
	CrawledEntries int `json:"crawled_entries"`

	// TotalEntries is the merged, deduplicated entry count.
	TotalEntries int `json:"total_entries"`

	// Files lists every file written, in write order. Chunk files come
	// first, the index file (if any) last.
	Files []string `json:"files"`

	// IndexWritten reports whether a sitemap index file was produced.
	IndexWritten bool `json:"index_written"`

	// Compressed reports whether output files were gzip-compressed.
	Compressed bool `json:"compressed"`
}

// ChunkCount returns the number of sitemap chunk files written,
// excluding the index file.
func (r *GenerateReport) ChunkCount() int {
	if r.IndexWritten {
		return len(r.Files) - 1
	}
	return len(r.Files)
}

// Status returns a lowercase status token for the run: "complete" when
// every fetch succeeded, "partial" when some pages failed but output
// was still produced. Display casing is the report writers' concern.
func (r *GenerateReport) Status() string {
	if r.Stats.Failed > 0 {
		return "partial"
	}
	return "complete"
}
