// Package goquery implements HTML processing for SDK reference pages:
// main content extraction, API signature and code example analysis, and
// link discovery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sdkdoc"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sdkdoc.Extractor at compile time.
var _ sdkdoc.Extractor = (*Extractor)(nil)

// unwantedSelectors match site chrome that never belongs to documentation.
var unwantedSelectors = strings.Join([]string{
	"script", "style", "noscript", "nav", "header", "footer", "aside",
	".site-header", ".site-footer", ".site-colophon", ".banner",
	".widget-area", ".sidebar-1", ".cs-loader", ".search-nav",
	".menu-main-menu-container", ".social-icons", ".email-container",
	".gdpr", ".subscribe-form", ".footer-nav", "#secondary", ".right-nav",
	".api-breadcrumbs", ".navigation", ".sidebar", ".menu",
	".advertisement", ".ads", ".social", ".share", ".comments",
	".breadcrumb", ".breadcrumbs", ".search-form", ".pagination", ".pager",
}, ", ")

// contentSelectors locate the documentation body, most specific first.
var contentSelectors = []string{
	"article.page", ".std_docs", ".api", ".main-section",
	"main", "article", ".content", ".main-content", ".documentation",
	".doc-content", "#content", "#main", ".entry-content", ".post-content",
	".page-content",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extractor pulls the documentation body out of an SDK reference page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract removes site chrome, comments and empty blocks, then returns the
// first matching content container, falling back to the body. Returns
// ETRANSFORM if no text remains.
func (e *Extractor) Extract(rawHTML string) (*sdkdoc.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "failed to parse HTML: %v", err)
	}

	result := &sdkdoc.ExtractResult{
		Title:       collapse(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
	}
	if result.Title == "" {
		result.Title = collapse(doc.Find("h1").First().Text())
	}

	doc.Find(unwantedSelectors).Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}

	var main *goquery.Selection
	for _, sel := range contentSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			main = found
			break
		}
	}
	if main == nil {
		main = doc.Find("body").First()
		main.Find(".header, .footer, .nav-wrapper").Remove()
	}

	main.Find("p, div").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" && s.Find("img, video, audio, br, hr").Length() == 0 {
			s.Remove()
		}
	})

	if strings.TrimSpace(main.Text()) == "" {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "no content found")
	}

	content, err := goquery.OuterHtml(main)
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.ETRANSFORM, "failed to render content: %v", err)
	}
	result.ContentHTML = content
	return result, nil
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
