// Package crawler provides the bounded web crawler that discovers the
// reachable pages of a site.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawl. It uses an explicit worklist of (url, depth) pairs rather than
// recursion so that very deep link chains cannot exhaust the call stack,
// while preserving depth-first, discovery-ordered traversal.
//
// Design decision: We implement our own traversal rather than using a
// crawling framework because:
//  1. The policy surface (depth, URL ceiling, host, glob patterns) is small
//  2. Fetching is deliberately sequential for politeness, so a framework's
//     scheduler buys nothing
//  3. Entry ordering must be deterministic for reproducible sitemap chunks
//
// # Components
//
//   - Spider: the traversal engine producing sitemap entries and page records
//   - Parser: goquery-based anchor and title extraction
//   - Normalize/IsValidURL: the canonical URL form used for deduplication
//   - compiled patterns: glob include/exclude filters over raw URLs
//
// # Politeness
//
// Exactly one request is in flight at a time and a fixed delay is awaited
// after every fetch, successful or not. Both the delay and the URL ceiling
// are configuration, not constants, so tests can run fast crawls.
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient, crawler.WithMaxDepth(3))
//	entries, err := spider.Crawl(ctx, "https://example.com/")
package crawler
