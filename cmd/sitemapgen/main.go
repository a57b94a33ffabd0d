// Package main provides the entry point for the sitemapgen CLI.
//
// sitemapgen crawls a website and generates XML sitemaps following the
// sitemaps.org 0.9 protocol, including sitemap index files for large sites.
//
// Usage:
//
//	sitemapgen generate https://example.com/
//	sitemapgen generate --urls urls.txt --output-dir public/
//
// See --help for all available options.
package main

// main is the entry point for sitemapgen.
func main() {
	Execute()
}
