// Package model defines the core data types shared across sitemapgen:
// sitemap entries, per-page crawl records, and the generation report.
//
// The package is intentionally free of behavior beyond validation and
// small constructors so that every other package can depend on it without
// creating import cycles.
package model
