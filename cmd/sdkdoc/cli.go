package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
	"github.com/fwojciec/sdkdoc/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config sdkdoc.Config
	Now    func() time.Time

	Store      sdkdoc.FingerprintStore
	Enumerator sdkdoc.Enumerator
	Pages      sdkdoc.PageService
	Runs       sdkdoc.RunService
	Pipeline   *crawl.Pipeline
	Discoverer *crawl.Discoverer
	Organizer  *fs.Organizer
	Docs       *fs.DocsTree
	Schema     sdkdoc.Context7Validator
	Tokens     sdkdoc.TokenCounter

	// Context7Path is the manifest checked by validate.
	Context7Path string
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// fail reports err on stderr and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", sdkdoc.ErrorMessage(err))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" type:"path" env:"SDKDOC_CONFIG" help:"YAML config file"`
	DB      string `type:"path" env:"SDKDOC_DB" help:"SQLite database path (overrides config)"`
	Workers int    `short:"w" help:"Worker pool size (overrides config)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Init       InitCmd       `cmd:"" help:"Create an empty fingerprint store"`
	Plan       PlanCmd       `cmd:"" help:"Show which pages the next run would process"`
	Run        RunCmd        `cmd:"" help:"Fetch and process new pages"`
	Categorize CategorizeCmd `cmd:"" help:"Group catalog URLs by SDK module"`
	Organize   OrganizeCmd   `cmd:"" help:"Write the documentation tree from processed pages"`
	Validate   ValidateCmd   `cmd:"" help:"Validate processed pages and the documentation tree"`
	Stats      StatsCmd      `cmd:"" help:"Show documentation tree statistics"`
	Discover   DiscoverCmd   `cmd:"" help:"Build a catalog by following links from a start page"`
}

// InitCmd is the "init" subcommand.
type InitCmd struct {
	Force       bool   `short:"f" help:"Reset a store that already holds fingerprints"`
	WriteConfig string `type:"path" help:"Also write the effective config to this file"`
}

// PlanCmd is the "plan" subcommand.
type PlanCmd struct {
	List    bool `short:"l" help:"List the pages a run would process"`
	History int  `help:"Show the most recent runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Recheck bool `help:"Fetch every page and detect content changes"`
}

// CategorizeCmd is the "categorize" subcommand.
type CategorizeCmd struct {
	JSON   bool   `help:"Print URLs grouped by category as JSON"`
	Output string `short:"o" type:"path" help:"Write the JSON grouping to a file"`
}

// OrganizeCmd is the "organize" subcommand.
type OrganizeCmd struct{}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Quiet bool `short:"q" help:"Only print the summary"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Tokens bool `short:"t" help:"Count tokens per document"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL         string `arg:"" optional:"" help:"Start page (defaults to the configured site)"`
	Output      string `short:"o" type:"path" help:"Write the catalog to a file instead of stdout"`
	MaxURLs     int    `name:"max-urls" help:"Stop after fetching this many pages"`
	Concurrency int    `help:"Concurrent fetch limit"`
}
