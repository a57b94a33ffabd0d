// Package config provides configuration structures and utilities for sitemapgen.
// It defines the main configuration options for crawling, sitemap output,
// and report generation preferences.
package config
