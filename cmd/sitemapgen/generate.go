package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitemapgen/internal/config"
	"github.com/nao1215/sitemapgen/internal/crawler"
	"github.com/nao1215/sitemapgen/internal/database"
	"github.com/nao1215/sitemapgen/internal/log"
	"github.com/nao1215/sitemapgen/internal/model"
	"github.com/nao1215/sitemapgen/internal/report"
	"github.com/nao1215/sitemapgen/internal/sitemap"
	"github.com/nao1215/sitemapgen/internal/urllist"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [seed-url]",
		Short: "Crawl a website and generate XML sitemaps",
		Long: `Generate crawls a website starting from the seed URL and writes XML
sitemaps following the sitemaps.org 0.9 protocol.

Pages are discovered depth-first by following links within the seed's
host. Each discovered page becomes a <url> entry with a priority that
decays with its distance from the seed. Pages that fail to fetch are
still listed; their links are simply not followed.

A manually curated URL list can be merged in with --urls. Manual
entries always win over crawled entries for the same URL. When the
total exceeds --max-per-file and --index is set, output is split into
numbered sitemap files plus a sitemap index.

Examples:
  # Crawl a site and write sitemap.xml to the current directory
  sitemapgen generate https://example.com/

  # Limit depth and exclude admin pages
  sitemapgen generate --depth 3 --exclude "/admin/*" https://example.com/

  # Merge a curated URL list and gzip the output
  sitemapgen generate --urls urls.txt --gzip https://example.com/

  # Split into multiple files with an index for a large site
  sitemapgen generate --index --publish-url https://example.com/ https://example.com/

  # Generate from a URL list only, without crawling
  sitemapgen generate --urls urls.txt

Configuration file (.sitemapgen) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      depth: 5
      excludePatterns:
        - "/admin/*"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerateCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultCrawlDepth,
		"Maximum crawl recursion depth (-1 for unlimited, 0 for seed page only)")
	cmd.Flags().IntP("max-urls", "n", config.DefaultMaxURLs,
		"Maximum number of URLs to collect")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Delay between page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes to read per page")
	cmd.Flags().StringSliceP("exclude", "x", nil,
		"Glob patterns for URLs to skip (repeatable)")
	cmd.Flags().StringSliceP("include", "i", nil,
		"Glob patterns URLs must match to be crawled (repeatable)")
	cmd.Flags().Bool("follow-external", false,
		"Follow links to hosts other than the seed's")

	// Manual URL list flags
	cmd.Flags().StringP("urls", "u", "",
		"Path to a manual URL list file merged with crawled entries")
	cmd.Flags().Float64("default-priority", model.PriorityUnset,
		"Priority for URL list entries without one (omitted if unset)")
	cmd.Flags().String("default-changefreq", "",
		"Change frequency for URL list entries without one")
	cmd.Flags().String("default-lastmod", "",
		"Lastmod date (YYYY-MM-DD) for URL list entries without one")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory to write sitemap files to")
	cmd.Flags().String("base-name", config.DefaultBaseName,
		"Base name for generated files")
	cmd.Flags().String("publish-url", "",
		"Public URL prefix where the sitemap files will be served (required with --index)")
	cmd.Flags().Int("max-per-file", config.DefaultMaxPerFile,
		"Maximum entries per sitemap file")
	cmd.Flags().Bool("index", false,
		"Split output into multiple files plus a sitemap index when needed")
	cmd.Flags().Bool("pretty", false,
		"Indent the XML output")
	cmd.Flags().BoolP("gzip", "z", false,
		"Gzip-compress the output files")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemapgen in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Write the report to the specified file instead of stdout")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runGenerate(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	if len(args) > 0 {
		cfg.SeedURL = args[0]
	}

	cfg.CrawlDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.MaxURLs, err = cmd.Flags().GetInt("max-urls")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ExcludePatterns, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}

	cfg.IncludePatterns, err = cmd.Flags().GetStringSlice("include")
	if err != nil {
		return nil, err
	}

	cfg.FollowExternal, err = cmd.Flags().GetBool("follow-external")
	if err != nil {
		return nil, err
	}

	cfg.URLListFile, err = cmd.Flags().GetString("urls")
	if err != nil {
		return nil, err
	}

	cfg.DefaultPriority, err = cmd.Flags().GetFloat64("default-priority")
	if err != nil {
		return nil, err
	}

	defaultChangeFreq, err := cmd.Flags().GetString("default-changefreq")
	if err != nil {
		return nil, err
	}
	cfg.DefaultChangeFreq = model.ChangeFreq(defaultChangeFreq)

	cfg.DefaultLastMod, err = cmd.Flags().GetString("default-lastmod")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.BaseName, err = cmd.Flags().GetString("base-name")
	if err != nil {
		return nil, err
	}

	cfg.PublishBaseURL, err = cmd.Flags().GetString("publish-url")
	if err != nil {
		return nil, err
	}

	cfg.MaxPerFile, err = cmd.Flags().GetInt("max-per-file")
	if err != nil {
		return nil, err
	}

	cfg.WriteIndex, err = cmd.Flags().GetBool("index")
	if err != nil {
		return nil, err
	}

	cfg.Pretty, err = cmd.Flags().GetBool("pretty")
	if err != nil {
		return nil, err
	}

	cfg.Compress, err = cmd.Flags().GetBool("gzip")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report-file")
	if err != nil {
		return nil, err
	}

	// Always save run history using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// runGenerate executes the sitemap generation pipeline: crawl, merge,
// chunk, render, write, report.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	startTime := time.Now()

	genReport := &model.GenerateReport{
		SeedURL:     cfg.SeedURL,
		GeneratedAt: startTime,
	}

	// Parse the manual URL list first: it is cheap, and a broken file
	// should fail before the crawl spends minutes fetching pages.
	manual, err := loadURLList(cfg, logger)
	if err != nil {
		return err
	}
	genReport.ManualEntries = len(manual)

	// Crawl when a seed URL is given
	var (
		crawled []model.SitemapEntry
		records []model.PageRecord
	)
	if cfg.SeedURL != "" {
		seed, err := url.Parse(crawler.Normalize(cfg.SeedURL))
		if err != nil || !crawler.IsValidURL(cfg.SeedURL) {
			return fmt.Errorf("invalid seed URL %q: must be absolute http or https", cfg.SeedURL)
		}
		genReport.Host = seed.Host

		spider := buildSpider(cfg, seed.Host, logger)

		fmt.Printf("Crawling %s...\n", cfg.SeedURL)
		crawled, err = spider.Crawl(ctx, cfg.SeedURL)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Warn("crawl interrupted, generating sitemap from pages collected so far",
					"collected", len(crawled))
			} else {
				return fmt.Errorf("crawl failed: %w", err)
			}
		}
		genReport.Stats = spider.Stats()
		records = spider.Records()
		genReport.CrawledEntries = len(crawled)

		fmt.Printf("Crawl finished: %d pages in %s\n",
			genReport.Stats.Visited, time.Since(startTime).Round(time.Millisecond))
	}

	// Merge, dedup, and chunk
	assembly, err := sitemap.Assemble(manual, crawled, cfg.MaxPerFile, cfg.WriteIndex)
	if err != nil {
		if errors.Is(err, sitemap.ErrNoEntries) {
			return fmt.Errorf("nothing to write: %w", err)
		}
		return err
	}
	genReport.TotalEntries = assembly.Total()

	// Render and write the files
	writer := sitemap.NewWriter(cfg.OutputDir, cfg.PublishBaseURL,
		sitemap.WithBaseName(cfg.BaseName),
		sitemap.WithPretty(cfg.Pretty),
		sitemap.WithCompression(cfg.Compress),
	)
	files, err := writer.Write(assembly)
	if err != nil {
		return fmt.Errorf("failed to write sitemap files: %w", err)
	}
	genReport.Files = files
	genReport.IndexWritten = assembly.IndexNeeded
	genReport.Compressed = cfg.Compress
	genReport.Duration = time.Since(startTime)

	if err := outputReport(cfg, genReport); err != nil {
		logger.Error("report failed", "error", err)
	}

	if err := saveRun(ctx, cfg, genReport, records, logger); err != nil {
		logger.Error("failed to save run history", "error", err)
	}

	return nil
}

// buildSpider creates a Spider for the seed host, applying any
// site-specific configuration from the config file.
func buildSpider(cfg *config.Config, host string, logger *slog.Logger) *crawler.Spider {
	// Site-specific config overrides global flags for this host
	var siteConfig config.SiteConfig
	if cfg.SiteConfigs != nil {
		siteConfig = cfg.SiteConfigs.GetSiteConfig(host)
	}

	depth := cfg.CrawlDepth
	if siteConfig.Depth != 0 {
		depth = siteConfig.Depth
	}

	exclude := cfg.ExcludePatterns
	if len(siteConfig.ExcludePatterns) > 0 {
		exclude = append(exclude, siteConfig.ExcludePatterns...)
	}
	include := cfg.IncludePatterns
	if len(siteConfig.IncludePatterns) > 0 {
		include = append(include, siteConfig.IncludePatterns...)
	}

	headers := make(map[string]string, len(siteConfig.Headers)+1)
	for k, v := range siteConfig.Headers {
		headers[k] = v
	}
	if siteConfig.Cookie != "" {
		headers["Cookie"] = siteConfig.Cookie
	}

	client := &http.Client{Timeout: cfg.Timeout}

	return crawler.NewSpider(client,
		crawler.WithMaxDepth(depth),
		crawler.WithMaxURLs(cfg.MaxURLs),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithExcludePatterns(exclude),
		crawler.WithIncludePatterns(include),
		crawler.WithFollowExternal(cfg.FollowExternal),
		crawler.WithHeaders(headers),
		crawler.WithLogger(logger),
	)
}

// loadURLList parses the manual URL list file if one was configured.
func loadURLList(cfg *config.Config, logger *slog.Logger) ([]model.SitemapEntry, error) {
	if cfg.URLListFile == "" {
		return nil, nil
	}

	f, err := os.Open(cfg.URLListFile) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()

	entries, err := urllist.Parse(f, urllist.Defaults{
		Priority:   cfg.DefaultPriority,
		ChangeFreq: cfg.DefaultChangeFreq,
		LastMod:    cfg.DefaultLastMod,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL list %s: %w", cfg.URLListFile, err)
	}
	return entries, nil
}

// outputReport outputs the generation report in the requested format.
func outputReport(cfg *config.Config, genReport *model.GenerateReport) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(genReport)
	return err
}

// saveRun persists the run and its page records to the history database.
// If saving is disabled, this function is a no-op.
func saveRun(ctx context.Context, cfg *config.Config, genReport *model.GenerateReport, records []model.PageRecord, logger *slog.Logger) error {
	if !cfg.SaveToDB || genReport.Host == "" {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, genReport, records)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run saved to history", "run_id", runID, "host", genReport.Host)
	return nil
}
