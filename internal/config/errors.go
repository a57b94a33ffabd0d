package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoSeedURL is returned when neither a seed URL nor a manual URL
	// list file is specified. There is nothing to generate a sitemap from.
	ErrNoSeedURL = errors.New("no input specified: provide a seed URL or use --urls")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate connection failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// A negative delay is invalid; use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxURLs is returned when the URL ceiling is negative.
	// A negative ceiling is invalid; use 0 for the default.
	ErrInvalidMaxURLs = errors.New("invalid max urls: must be non-negative")

	// ErrInvalidMaxPerFile is returned when the per-file entry limit is
	// negative. Use 0 for the protocol default of 50000.
	ErrInvalidMaxPerFile = errors.New("invalid max per file: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrMissingPublishURL is returned when an index is requested without a
	// publish base URL. The index's <loc> values must be absolute URLs.
	ErrMissingPublishURL = errors.New("missing publish URL: --index requires --publish-url")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidChangeFreq is returned when the default changefreq is not
	// one of the values the sitemap protocol allows.
	ErrInvalidChangeFreq = errors.New("invalid changefreq: must be always, hourly, daily, weekly, monthly, yearly, or never")

	// ErrInvalidPriority is returned when the default priority is outside
	// the [0.0, 1.0] range the sitemap protocol allows.
	ErrInvalidPriority = errors.New("invalid priority: must be between 0.0 and 1.0")

	// ErrInvalidLastMod is returned when the default lastmod is not a
	// YYYY-MM-DD date.
	ErrInvalidLastMod = errors.New("invalid lastmod: must be a YYYY-MM-DD date")
)
