package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitemapgen/internal/config"
	"github.com/nao1215/sitemapgen/internal/database"
	"github.com/nao1215/sitemapgen/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares crawl runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [host]",
		Short: "Compare crawl runs from the history database",
		Long: `Compare shows how a site's page set changed between two crawl runs.

Every 'sitemapgen generate' run is recorded in a local history database.
This command diffs the page records of two runs and reports:
- Pages that appeared since the earlier run
- Pages that disappeared
- Pages whose content hash changed

By default the latest two runs for the host are compared.

Examples:
  # Compare the latest two runs for a host
  sitemapgen compare example.com

  # List recorded runs for a host
  sitemapgen compare --list example.com

  # Compare the latest run against a specific earlier run
  sitemapgen compare --with-run-id 5 example.com

  # Output the diff in JSON format
  sitemapgen compare --json example.com

  # List all hosts with recorded runs
  sitemapgen compare --list-hosts`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified host")
	cmd.Flags().BoolP("list-hosts", "L", false,
		"List all hosts with recorded runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listHosts, err := cmd.Flags().GetBool("list-hosts")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-hosts)
	var host string
	if !listHosts {
		if len(args) == 0 {
			return errors.New("host is required (use --list-hosts to see available hosts)")
		}
		host = normalizeHost(args[0])
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listHosts {
		return listRecordedHosts(ctx, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, host)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, host, withRunID, jsonOutput)
}

// normalizeHost strips a scheme and path from the argument so both
// "example.com" and "https://example.com/" select the same history.
func normalizeHost(arg string) string {
	if strings.Contains(arg, "://") {
		if u, err := url.Parse(arg); err == nil && u.Host != "" {
			return strings.ToLower(u.Host)
		}
	}
	host := arg
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return strings.ToLower(host)
}

// listRecordedHosts lists all hosts that have runs in the database.
func listRecordedHosts(ctx context.Context, db *database.CrawlDB) error {
	runs, err := db.ListRuns(ctx, "", 1000)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	seen := make(map[string]bool)
	hosts := make([]string, 0)
	for _, run := range runs {
		if !seen[run.Host] {
			seen[run.Host] = true
			hosts = append(hosts, run.Host)
		}
	}

	if len(hosts) == 0 {
		fmt.Println("No recorded runs found in the database.")
		fmt.Println("\nUse 'sitemapgen generate <seed-url>' to crawl a site.")
		return nil
	}

	fmt.Printf("Hosts with recorded runs (%d):\n\n", len(hosts))
	for _, h := range hosts {
		fmt.Printf("  - %s\n", h)
	}
	fmt.Println("\nUse 'sitemapgen compare --list <host>' to see run history for a host.")

	return nil
}

// listRunHistory lists all recorded runs for a specific host.
func listRunHistory(ctx context.Context, db *database.CrawlDB, host string) error {
	runs, err := db.ListRuns(ctx, host, 50)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", host)
		fmt.Println("\nUse 'sitemapgen generate' to crawl this site.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", host, len(runs))
	fmt.Printf("  %-6s  %-20s  %-8s  %-8s  %s\n", "ID", "Date", "Pages", "Failed", "Entries")
	fmt.Println("  " + strings.Repeat("-", 56))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-8d  %-8d  %d\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.PagesCrawled,
			run.PagesFailed,
			run.EntriesWritten,
		)
	}

	fmt.Println("\nUse 'sitemapgen compare <host>' to compare the latest two runs.")
	fmt.Println("Use 'sitemapgen compare --with-run-id <id> <host>' to compare with a specific run.")

	return nil
}

// ComparisonResult holds the result of comparing two crawl runs.
type ComparisonResult struct {
	// Host is the compared site's host.
	Host string `json:"host"`

	// PreviousRun contains metadata about the earlier run.
	PreviousRun RunMetadata `json:"previous_run"`

	// CurrentRun contains metadata about the later run.
	CurrentRun RunMetadata `json:"current_run"`

	// AddedURLs are pages present in the current run but not the previous.
	AddedURLs []string `json:"added_urls,omitempty"`

	// RemovedURLs are pages present in the previous run but not the current.
	RemovedURLs []string `json:"removed_urls,omitempty"`

	// ChangedURLs are pages whose content hash differs between the runs.
	ChangedURLs []string `json:"changed_urls,omitempty"`

	// UnchangedCount is the number of pages identical in both runs.
	UnchangedCount int `json:"unchanged_count"`
}

// RunMetadata contains metadata about a run for comparison display.
type RunMetadata struct {
	// ID is the run's database identifier.
	ID int64 `json:"id"`

	// StartedAt is when the run was performed.
	StartedAt time.Time `json:"started_at"`

	// PagesCrawled is the number of pages visited during the run.
	PagesCrawled int `json:"pages_crawled"`
}

// runComparison diffs the latest run against an earlier one.
func runComparison(ctx context.Context, db *database.CrawlDB, host string, withRunID int64, jsonOutput bool) error {
	runs, err := db.LatestRuns(ctx, host, 2)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		return fmt.Errorf("no run history found for %s", host)
	}
	if len(runs) < 2 && withRunID == 0 {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
	}

	current := runs[0]

	var previous database.RunSummary
	if withRunID > 0 {
		previous, err = findRunByID(ctx, db, host, withRunID)
		if err != nil {
			return err
		}
		if previous.ID == current.ID {
			return fmt.Errorf("run %d is the latest run; pick an earlier one", withRunID)
		}
	} else {
		previous = runs[1]
	}

	currentPages, err := db.GetRunPages(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("failed to load pages of run %d: %w", current.ID, err)
	}
	previousPages, err := db.GetRunPages(ctx, previous.ID)
	if err != nil {
		return fmt.Errorf("failed to load pages of run %d: %w", previous.ID, err)
	}

	result := compareRuns(host, previous, current, previousPages, currentPages)

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	return outputComparisonText(result)
}

// findRunByID locates a run of the given host by its database ID.
func findRunByID(ctx context.Context, db *database.CrawlDB, host string, runID int64) (database.RunSummary, error) {
	runs, err := db.ListRuns(ctx, host, 1000)
	if err != nil {
		return database.RunSummary{}, fmt.Errorf("failed to list runs: %w", err)
	}
	for _, run := range runs {
		if run.ID == runID {
			return run, nil
		}
	}
	return database.RunSummary{}, fmt.Errorf("run with ID %d not found for %s (use --list to see available IDs)", runID, host)
}

// compareRuns diffs the page sets of two runs.
func compareRuns(host string, previous, current database.RunSummary, previousPages, currentPages []model.PageRecord) *ComparisonResult {
	result := &ComparisonResult{
		Host: host,
		PreviousRun: RunMetadata{
			ID:           previous.ID,
			StartedAt:    previous.StartedAt,
			PagesCrawled: previous.PagesCrawled,
		},
		CurrentRun: RunMetadata{
			ID:           current.ID,
			StartedAt:    current.StartedAt,
			PagesCrawled: current.PagesCrawled,
		},
	}

	previousByURL := make(map[string]model.PageRecord, len(previousPages))
	for _, p := range previousPages {
		previousByURL[p.URL] = p
	}

	for _, p := range currentPages {
		prev, exists := previousByURL[p.URL]
		switch {
		case !exists:
			result.AddedURLs = append(result.AddedURLs, p.URL)
		case prev.ContentHash != p.ContentHash && p.ContentHash != "" && prev.ContentHash != "":
			result.ChangedURLs = append(result.ChangedURLs, p.URL)
		default:
			result.UnchangedCount++
		}
		delete(previousByURL, p.URL)
	}

	for url := range previousByURL {
		result.RemovedURLs = append(result.RemovedURLs, url)
	}

	return result
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Run Comparison: %s\n", result.Host)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nPrevious run: #%d  %s  (%d pages)\n",
		result.PreviousRun.ID,
		result.PreviousRun.StartedAt.Format("2006-01-02 15:04:05"),
		result.PreviousRun.PagesCrawled)
	fmt.Printf("Current run:  #%d  %s  (%d pages)\n",
		result.CurrentRun.ID,
		result.CurrentRun.StartedAt.Format("2006-01-02 15:04:05"),
		result.CurrentRun.PagesCrawled)

	if len(result.AddedURLs) > 0 {
		fmt.Printf("\nAdded pages (%d):\n", len(result.AddedURLs))
		for _, u := range result.AddedURLs {
			fmt.Printf("  [+] %s\n", u)
		}
	}

	if len(result.RemovedURLs) > 0 {
		fmt.Printf("\nRemoved pages (%d):\n", len(result.RemovedURLs))
		for _, u := range result.RemovedURLs {
			fmt.Printf("  [-] %s\n", u)
		}
	}

	if len(result.ChangedURLs) > 0 {
		fmt.Printf("\nChanged pages (%d):\n", len(result.ChangedURLs))
		for _, u := range result.ChangedURLs {
			fmt.Printf("  [~] %s\n", u)
		}
	}

	if len(result.AddedURLs) == 0 && len(result.RemovedURLs) == 0 && len(result.ChangedURLs) == 0 {
		fmt.Println("\nNo differences found.")
	}

	fmt.Printf("\nUnchanged: %d pages\n", result.UnchangedCount)

	return nil
}
