package sdkdoc

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// Description comes from the description meta tag when present.
	Description string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Analysis holds API metadata found in a page's main content.
type Analysis struct {
	Signatures []APISignature
	Examples   []CodeExample
}

// Analyzer extracts API signatures and code examples from content HTML.
type Analyzer interface {
	Analyze(contentHTML string) (*Analysis, error)
}
