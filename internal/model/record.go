package model

import "time"

// PageRecord captures the outcome of fetching a single page during a
// crawl. Records feed the history database and the generation report;
// they are kept separate from SitemapEntry because an entry is recorded
// even when the fetch behind it fails.
type PageRecord struct {
	// URL is the canonical URL that was fetched.
	URL string `json:"url"`

	// Depth is the number of link hops from the seed.
	Depth int `json:"depth"`

	// StatusCode is the HTTP response status, or 0 when the fetch failed
	// before a response was received.
	StatusCode int `json:"status_code"`

	// ContentType is the response MIME type, empty on failure.
	ContentType string `json:"content_type,omitempty"`

	// Title is the page title for HTML responses.
	Title string `json:"title,omitempty"`

	// ContentHash is the SHA3-256 hex digest of the response body.
	// Empty when the fetch failed. Identical hashes at different URLs
	// indicate duplicate content served under multiple paths.
	ContentHash string `json:"content_hash,omitempty"`

	// FetchedAt is when the fetch completed (or failed).
	FetchedAt time.Time `json:"fetched_at"`

	// FetchError holds the fetch failure, empty on success.
	FetchError string `json:"fetch_error,omitempty"`
}

// Failed reports whether the page fetch failed.
func (r PageRecord) Failed() bool {
	return r.FetchError != ""
}

// CrawlStats summarizes a finished crawl.
type CrawlStats struct {
	// Visited is the number of unique canonical URLs processed.
	Visited int `json:"visited"`

	// Collected is the number of sitemap entries produced.
	Collected int `json:"collected"`

	// Failed is the number of pages whose fetch failed.
	Failed int `json:"failed"`

	// SkippedExternal counts links dropped by the same-host policy.
	SkippedExternal int `json:"skipped_external"`

	// SkippedPattern counts links dropped by include/exclude patterns.
	SkippedPattern int `json:"skipped_pattern"`
}
