package sdkdoc

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}

// Transformer turns fetched HTML into a processed page.
type Transformer interface {
	// Transform returns the processed page for url.
	// Returns ETRANSFORM when the content cannot be processed.
	Transform(url, html string) (*Page, error)
}
