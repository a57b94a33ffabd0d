// Package main provides the entry point for the sitemapgen CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitemapgen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemapgen",
		Short: "XML sitemap generator with a built-in website crawler",
		Long: `sitemapgen crawls a website and generates XML sitemaps following the
sitemaps.org 0.9 protocol.

It discovers pages by following links from a seed URL, merges them with
an optional manually curated URL list, and writes one or more sitemap
files plus a sitemap index when the site exceeds the per-file limit.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
