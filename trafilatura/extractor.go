// Package trafilatura extracts main page content with go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/sdkdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sdkdoc.Extractor at compile time.
var _ sdkdoc.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// It serves as the alternative to the goquery extractor for pages whose
// layout does not match the SDK reference template.
type Extractor struct {
	// Fallback enables the readability and dom-distiller fallbacks.
	Fallback bool
}

// NewExtractor creates a new Extractor with fallbacks enabled.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: true}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*sdkdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: e.Fallback,
		IncludeLinks:   true,
	})
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "no main content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "render content: %v", err)
	}

	return &sdkdoc.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		Description: strings.TrimSpace(result.Metadata.Description),
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
