package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
	"github.com/fwojciec/sdkdoc/diffmatchpatch"
	"github.com/fwojciec/sdkdoc/fs"
	"github.com/fwojciec/sdkdoc/gemini"
	"github.com/fwojciec/sdkdoc/gojsonschema"
	"github.com/fwojciec/sdkdoc/goquery"
	"github.com/fwojciec/sdkdoc/htmltomarkdown"
	sdkhttp "github.com/fwojciec/sdkdoc/http"
	"github.com/fwojciec/sdkdoc/readability"
	"github.com/fwojciec/sdkdoc/rod"
	sdkslog "github.com/fwojciec/sdkdoc/slog"
	"github.com/fwojciec/sdkdoc/sqlite"
	"github.com/fwojciec/sdkdoc/trafilatura"
	sdkyaml "github.com/fwojciec/sdkdoc/yaml"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// Variables already set take precedence. A missing file is ignored.
	EnvFile string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
		}
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sdkdoc"),
		kong.Description("Incrementally crawl the X-Plane SDK reference into Markdown documentation"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sdkdoc --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := sdkyaml.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set SDKDOC_CONFIG or pass --config to use a different config file")
		return err
	}
	if cli.DB != "" {
		cfg.DBPath = cli.DB
	}
	if cli.Workers > 0 {
		cfg.Workers = cli.Workers
	}
	if err := sdkyaml.Validate(cfg); err != nil {
		return err
	}

	logger, closeLog := newLogger(stderr, cfg.LogFile, cli.Verbose)
	defer closeLog()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Config: cfg,
	}

	cmd := strings.Fields(kongCtx.Command())[0]
	defer m.Close()
	if err := m.wire(cmd, cli, deps); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services the given command needs.
func (m *Main) wire(cmd string, cli *CLI, deps *Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger

	enum, source := newEnumerator(cfg, logger)
	deps.Enumerator = sdkslog.NewLoggingEnumerator(enum, source, logger)

	outDir := filepath.Clean(cfg.OutputDir)
	deps.Docs = fs.NewDocsTree(outDir)
	deps.Context7Path = filepath.Join(filepath.Dir(outDir), fs.Context7File)

	switch cmd {
	case "categorize", "stats", "discover":
	default:
		if err := m.openDB(cfg.DBPath, logger); err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Set SDKDOC_DB to use a different database path")
			return err
		}
		deps.Pages = sqlite.NewPageService(m.DB)
		deps.Runs = sqlite.NewRunService(m.DB)
	}

	switch cmd {
	case "init", "plan", "run":
		deps.Store = sdkslog.NewLoggingFingerprintStore(m.newStore(cfg, logger), logger)
	}

	switch cmd {
	case "plan":
		deps.Pipeline = crawl.NewPipeline(cfg, deps.Store, deps.Enumerator, nil, nil)
		deps.Pipeline.Logger = logger
	case "run":
		fetcher, err := m.newFetcher(cfg, deps.Stderr)
		if err != nil {
			return err
		}
		extractor, err := newExtractor(cfg.Extractor)
		if err != nil {
			return err
		}
		transformer := &crawl.Transformer{
			Extractor: extractor,
			Converter: htmltomarkdown.NewConverter(),
			Analyzer:  goquery.NewAnalyzer(),
		}
		p := crawl.NewPipeline(cfg, deps.Store, deps.Enumerator, sdkslog.NewLoggingFetcher(fetcher, logger), transformer)
		p.Pages = deps.Pages
		p.Runs = deps.Runs
		p.Differ = diffmatchpatch.NewDiffer()
		p.Logger = logger
		deps.Pipeline = p
	case "organize":
		deps.Organizer = fs.NewOrganizer(filepath.Dir(outDir), filepath.Base(outDir))
	case "validate":
		schema, err := gojsonschema.NewValidator()
		if err != nil {
			return err
		}
		deps.Schema = schema
	case "stats":
		if cli.Stats.Tokens {
			tokens, err := gemini.NewTokenCounter(gemini.DefaultModel)
			if err != nil {
				return err
			}
			deps.Tokens = tokens
		}
	case "discover":
		fetcher := sdkhttp.NewFetcher(sdkhttp.WithTimeout(cfg.Timeout), sdkhttp.WithUserAgent(cfg.UserAgent))
		m.closers = append(m.closers, fetcher)
		deps.Discoverer = &crawl.Discoverer{
			Fetcher:     sdkslog.NewLoggingFetcher(fetcher, logger),
			Selector:    goquery.NewSDKSelector(cfg.PathPrefix),
			RateLimiter: crawl.NewDomainLimiter(cfg.RateDelay),
			Filter:      cfg.Filter(),
			RetryDelays: cfg.RetryDelays,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		}
	}

	return nil
}

// openDB opens the database at path. A damaged file is moved aside and
// replaced by an empty database, so the next run treats every page as New.
func (m *Main) openDB(path string, logger *slog.Logger) error {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db := sqlite.NewDB(path)
	err := db.Open()
	if err != nil && sqlite.IsCorrupt(err) {
		moved, moveErr := db.MoveAside()
		if moveErr != nil {
			return fmt.Errorf("failed to open database at %q: %w", path, moveErr)
		}
		logger.Warn("database corrupted, starting empty", "path", path, "moved_to", moved, "code", sdkdoc.ECORRUPT, "err", err)
		err = db.Open()
	}
	if err != nil {
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.DB = db
	return nil
}

func (m *Main) newStore(cfg sdkdoc.Config, logger *slog.Logger) sdkdoc.FingerprintStore {
	if cfg.StoreBackend == sdkdoc.StoreSQLite {
		return sqlite.NewHashStore(m.DB, logger)
	}
	return fs.NewHashStore(cfg.StorePath, logger)
}

func (m *Main) newFetcher(cfg sdkdoc.Config, stderr io.Writer) (sdkdoc.Fetcher, error) {
	if cfg.Fetcher == sdkdoc.FetcherBrowser {
		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Timeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, fetcher)
		return fetcher, nil
	}
	fetcher := sdkhttp.NewFetcher(sdkhttp.WithTimeout(cfg.Timeout), sdkhttp.WithUserAgent(cfg.UserAgent))
	m.closers = append(m.closers, fetcher)
	return fetcher, nil
}

func newEnumerator(cfg sdkdoc.Config, logger *slog.Logger) (sdkdoc.Enumerator, string) {
	if cfg.Source == sdkdoc.SourceSitemap {
		return sdkhttp.NewSitemapSource(nil, cfg.SitemapURL, cfg.Filter()), cfg.SitemapURL
	}
	return fs.NewCatalog(cfg.CatalogPath, cfg.Filter(), logger), cfg.CatalogPath
}

func newExtractor(kind string) (sdkdoc.Extractor, error) {
	switch kind {
	case sdkdoc.ExtractorSDK:
		return goquery.NewExtractor(), nil
	case sdkdoc.ExtractorTrafilatura:
		return trafilatura.NewExtractor(), nil
	case sdkdoc.ExtractorReadability:
		return readability.NewExtractor(), nil
	default:
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "unknown extractor %q", kind)
	}
}

// newLogger writes text records to stderr and, when logFile is set, to a
// rotating log file.
func newLogger(stderr io.Writer, logFile string, verbose bool) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	w := stderr
	closer := func() error { return nil }
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(stderr, rotating)
		closer = rotating.Close
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}
