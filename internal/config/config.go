package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/sitemapgen/internal/model"
)

// Default configuration values.
// These values are chosen for polite crawling of typical public websites.
const (
	// DefaultTimeout is the per-request HTTP timeout. 30 seconds is generous
	// for a single page fetch; slower responses usually indicate a stalled
	// server rather than a slow page.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDepth of -1 means unlimited depth. Most sites are shallow
	// enough that the URL ceiling, not depth, is the practical bound.
	DefaultCrawlDepth = -1

	// DefaultMaxURLs is the maximum number of pages to collect per crawl.
	// 50000 matches the per-file limit of the sitemap protocol, so a default
	// crawl never needs more than one sitemap file.
	DefaultMaxURLs = 50000

	// DefaultMaxPerFile is the maximum number of entries per sitemap file,
	// as required by the sitemap protocol.
	DefaultMaxPerFile = 50000

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemapgen"

	// DefaultCrawlDelay is the delay between requests during crawling.
	// This is a politeness setting to avoid overwhelming the target site.
	// Can be adjusted via the --delay CLI flag.
	DefaultCrawlDelay = 200 * time.Millisecond

	// DefaultUserAgent identifies sitemapgen in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "sitemapgen/1.0 (+https://github.com/nao1215/sitemapgen)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOutputDir is where sitemap files are written.
	DefaultOutputDir = "."

	// DefaultBaseName is the base name for generated sitemap files.
	DefaultBaseName = "sitemap"
)

// Config holds all configuration options for sitemapgen.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// SeedURL is the URL the crawl starts from. Required for generation.
	SeedURL string

	// Timeout is the HTTP timeout for each page fetch.
	Timeout time.Duration

	// CrawlDepth is the maximum recursion depth for web crawling.
	// Depth 0 means only fetch the seed page. -1 means unlimited.
	CrawlDepth int

	// MaxURLs is the maximum number of pages to collect per crawl.
	// This bounds the whole crawl, not a single branch.
	// A value of 0 means use the default (DefaultMaxURLs).
	MaxURLs int

	// CrawlDelay is the delay between HTTP requests during crawling.
	// This is a "politeness" setting to avoid overwhelming the target.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// ExcludePatterns are glob patterns for URLs to skip during crawling.
	ExcludePatterns []string

	// IncludePatterns are glob patterns for URLs to follow during crawling.
	// When non-empty, only matching URLs are crawled.
	IncludePatterns []string

	// FollowExternal allows the crawler to leave the seed URL's host.
	// Off by default: a sitemap describes a single site.
	FollowExternal bool

	// URLListFile is an optional path to a manual URL list file.
	// Entries from this file take precedence over crawled entries.
	URLListFile string

	// DefaultPriority is the priority applied to URL list entries that
	// do not carry their own. model.PriorityUnset means "omit".
	DefaultPriority float64

	// DefaultChangeFreq is the change frequency applied to URL list
	// entries that do not carry their own. Empty means "omit".
	DefaultChangeFreq model.ChangeFreq

	// DefaultLastMod is the lastmod date (YYYY-MM-DD) applied to URL list
	// entries that do not carry their own. Empty means "omit".
	DefaultLastMod string

	// OutputDir is the directory sitemap files are written to.
	OutputDir string

	// BaseName is the base name for generated files ("sitemap" produces
	// sitemap.xml, sitemap_1.xml, sitemap_index.xml).
	BaseName string

	// PublishBaseURL is the public URL prefix under which the sitemap files
	// will be served. Used for the <loc> values in the sitemap index.
	// Required when an index is written.
	PublishBaseURL string

	// MaxPerFile is the maximum number of entries per sitemap file.
	// A value of 0 means use the default (DefaultMaxPerFile).
	MaxPerFile int

	// WriteIndex enables splitting output into multiple sitemap files
	// plus a sitemap index when the entry count exceeds MaxPerFile.
	WriteIndex bool

	// Pretty enables indented XML output.
	Pretty bool

	// Compress enables gzip compression of output files.
	Compress bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitemapgen in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile and consulted per host.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite crawl history.
	// When set, run results are saved for later comparison.
	// When empty, results are not persisted.
	DBDir string

	// SaveToDB indicates whether to save run results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delay).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		CrawlDepth:      DefaultCrawlDepth,
		MaxURLs:         DefaultMaxURLs,
		CrawlDelay:      DefaultCrawlDelay,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		DefaultPriority: model.PriorityUnset,
		OutputDir:       DefaultOutputDir,
		BaseName:        DefaultBaseName,
		MaxPerFile:      DefaultMaxPerFile,
	}
}

// XDGDataDir returns the XDG data directory for sitemapgen.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitemapgen
// On macOS: ~/Library/Application Support/sitemapgen
// On Windows: %LOCALAPPDATA%\sitemapgen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitemapgen.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for sitemapgen.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// A seed URL or a manual URL list must provide at least one source
	if c.SeedURL == "" && c.URLListFile == "" {
		return ErrNoSeedURL
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// MaxURLs must be non-negative; 0 means default
	if c.MaxURLs < 0 {
		return ErrInvalidMaxURLs
	}

	// MaxPerFile must be non-negative; 0 means default
	if c.MaxPerFile < 0 {
		return ErrInvalidMaxPerFile
	}

	// MaxBodySize must be non-negative; 0 means default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// The index needs public URLs for its <loc> values
	if c.WriteIndex && c.PublishBaseURL == "" {
		return ErrMissingPublishURL
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// A default changefreq must be one of the protocol's values
	if c.DefaultChangeFreq != "" && !c.DefaultChangeFreq.IsValid() {
		return ErrInvalidChangeFreq
	}

	// A default priority must be in [0.0, 1.0] or unset
	if c.DefaultPriority != model.PriorityUnset &&
		(c.DefaultPriority < 0 || c.DefaultPriority > 1) {
		return ErrInvalidPriority
	}

	if c.DefaultLastMod != "" {
		if _, err := time.Parse(model.LastModLayout, c.DefaultLastMod); err != nil {
			return ErrInvalidLastMod
		}
	}

	return nil
}
