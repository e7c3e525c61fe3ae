// Package readability extracts main page content with go-readability.
package readability

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sdkdoc"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements sdkdoc.Extractor at compile time.
var _ sdkdoc.Extractor = (*Extractor)(nil)

// chromeSelectors are removed before scoring so site navigation never
// reaches the fingerprinted content.
const chromeSelectors = "script, style, noscript, nav, header, footer, aside"

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract strips site chrome, then runs readability over what is left.
// language-* classes survive so code fences keep their language.
func (e *Extractor) Extract(rawHTML string) (*sdkdoc.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "failed to parse HTML: %v", err)
	}
	doc.Find(chromeSelectors).Remove()

	parser := readability.NewParser()
	doc.Find(`[class*="language-"]`).Each(func(_ int, s *goquery.Selection) {
		for _, class := range strings.Fields(s.AttrOr("class", "")) {
			if strings.HasPrefix(class, "language-") {
				parser.ClassesToPreserve = append(parser.ClassesToPreserve, class)
			}
		}
	})

	cleaned, err := doc.Html()
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "render HTML: %v", err)
	}

	article, err := parser.Parse(strings.NewReader(cleaned), nil)
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "readability: %v", err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "no main content found")
	}

	return &sdkdoc.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		Description: strings.TrimSpace(article.Excerpt),
		ContentHTML: article.Content,
	}, nil
}
