// Package database provides SQLite-backed storage of crawl history.
//
// Each sitemap generation run is stored as one row in crawl_runs plus a
// set of per-page rows in crawl_pages. The history enables the compare
// command, which diffs the URL sets of two runs for the same host to
// show pages that appeared or disappeared between generations.
package database
