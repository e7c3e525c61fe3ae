package sdkdoc

import "time"

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Fetcher kinds.
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Extractor kinds.
const (
	ExtractorSDK         = "sdk"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// Source kinds.
const (
	SourceCatalog = "catalog"
	SourceSitemap = "sitemap"
)

// Config holds the settings every component is constructed from.
type Config struct {
	// Source selects where identifiers come from.
	Source string `yaml:"source" validate:"oneof=catalog sitemap"`
	// CatalogPath is the flat URL list read by the catalog source.
	CatalogPath string `yaml:"catalog_path" validate:"required_if=Source catalog"`
	// SitemapURL is the site root used by the sitemap source.
	SitemapURL string `yaml:"sitemap_url" validate:"required_if=Source sitemap"`

	Host       string `yaml:"host" validate:"required,hostname_rfc1123"`
	PathPrefix string `yaml:"path_prefix" validate:"required,startswith=/"`

	StoreBackend string `yaml:"store_backend" validate:"oneof=json sqlite"`
	StorePath    string `yaml:"store_path" validate:"required"`
	DBPath       string `yaml:"db_path" validate:"required"`
	OutputDir    string `yaml:"output_dir" validate:"required"`
	ReportPath   string `yaml:"report_path" validate:"required"`

	Workers     int             `yaml:"workers" validate:"min=1,max=64"`
	RateDelay   time.Duration   `yaml:"rate_delay" validate:"min=0s"`
	Timeout     time.Duration   `yaml:"timeout" validate:"min=1ms"`
	RetryDelays []time.Duration `yaml:"retry_delays" validate:"max=10,dive,min=0s"`
	UserAgent   string          `yaml:"user_agent"`

	Fetcher   string `yaml:"fetcher" validate:"oneof=http browser"`
	Extractor string `yaml:"extractor" validate:"oneof=sdk trafilatura readability"`

	LogFile string `yaml:"log_file"`
}

// DefaultUserAgent identifies as a desktop browser; the SDK site serves
// reduced pages to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultConfig returns the configuration for the X-Plane SDK site.
func DefaultConfig() Config {
	return Config{
		Source:       SourceCatalog,
		CatalogPath:  "sdk_map_optimized.txt",
		Host:         "developer.x-plane.com",
		PathPrefix:   "/sdk/",
		StoreBackend: StoreJSON,
		StorePath:    "raw_data/content_hashes.json",
		DBPath:       "raw_data/sdkdoc.db",
		OutputDir:    "docs",
		ReportPath:   "validation_report.json",
		Workers:      5,
		RateDelay:    300 * time.Millisecond,
		Timeout:      30 * time.Second,
		RetryDelays:  []time.Duration{1 * time.Second, 2 * time.Second},
		UserAgent:    DefaultUserAgent,
		Fetcher:      FetcherHTTP,
		Extractor:    ExtractorSDK,
	}
}

// Filter returns the URL filter scoping the catalog to the configured site.
func (c Config) Filter() *URLFilter {
	return &URLFilter{
		Host:       c.Host,
		PathPrefix: c.PathPrefix,
		Exclude:    DefaultExcludes(c.PathPrefix),
	}
}
