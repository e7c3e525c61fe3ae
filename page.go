package sdkdoc

import (
	"context"
	"time"
)

// Page is a documentation page after processing.
type Page struct {
	URL         string
	Title       string
	Description string
	Category    string

	// Markdown is the final processed content. Its fingerprint is what the
	// change detector compares between runs.
	Markdown    string
	Fingerprint Digest

	Signatures      []APISignature
	Examples        []CodeExample
	CrossReferences []string

	ProcessedAt time.Time
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Markdown == "" {
		return Errorf(EINVALID, "page content required")
	}
	return nil
}

// SignatureKind identifies the kind of declaration an APISignature describes.
type SignatureKind string

// Signature kinds.
const (
	SignatureFunction SignatureKind = "function"
	SignatureEnum     SignatureKind = "enum"
	SignatureDefine   SignatureKind = "define"
	SignatureTypedef  SignatureKind = "typedef"
)

// APISignature is a declaration documented on a page.
type APISignature struct {
	Kind        SignatureKind `json:"kind"`
	Name        string        `json:"name"`
	Signature   string        `json:"signature"`
	ReturnType  string        `json:"return_type,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty"`
	Values      []EnumValue   `json:"values,omitempty"`
	Description string        `json:"description,omitempty"`
	Deprecated  bool          `json:"deprecated,omitempty"`
}

// Parameter is one parameter of a function signature.
type Parameter struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// EnumValue is one member of an enum declaration.
type EnumValue struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ExampleKind classifies code examples by size.
type ExampleKind string

// Example kinds.
const (
	ExampleSnippet ExampleKind = "snippet"
	ExampleExample ExampleKind = "example"
	ExampleProgram ExampleKind = "complete_program"
)

// CodeExample is a code block found on a page.
type CodeExample struct {
	Language string      `json:"language"`
	Kind     ExampleKind `json:"kind"`
	Code     string      `json:"code"`
	// Context is the heading or paragraph preceding the block.
	Context string `json:"context,omitempty"`
}

// PageService represents a service for managing processed pages.
type PageService interface {
	// FindPageByURL retrieves a page by URL.
	// Returns ENOTFOUND if the page does not exist.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves pages matching the filter, ordered by URL.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// SavePage inserts or replaces a page. The previous content of an
	// existing page is kept as its latest revision.
	SavePage(ctx context.Context, page *Page) error

	// PreviousMarkdown returns the content a page had before its last save.
	// Returns ENOTFOUND if there is no earlier revision.
	PreviousMarkdown(ctx context.Context, url string) (string, error)

	// DeletePage permanently removes a page and its revisions.
	// Returns ENOTFOUND if the page does not exist.
	DeletePage(ctx context.Context, url string) error
}

// PageFilter represents a filter used by FindPages.
type PageFilter struct {
	Category *string

	Offset int
	Limit  int
}
