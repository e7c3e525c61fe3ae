package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/sdkdoc"
)

// maxSitemapDepth bounds how many sitemap indexes may nest.
const maxSitemapDepth = 3

var _ sdkdoc.Enumerator = (*SitemapSource)(nil)

// SitemapSource enumerates SDK pages listed in a site's sitemaps.
type SitemapSource struct {
	client  *http.Client
	siteURL string
	filter  *sdkdoc.URLFilter
}

// NewSitemapSource creates a SitemapSource. siteURL is either a sitemap
// document (ending in .xml) or a site whose sitemaps are listed in
// robots.txt, with /sitemap.xml as the fallback. If client is nil,
// http.DefaultClient is used.
func NewSitemapSource(client *http.Client, siteURL string, filter *sdkdoc.URLFilter) *SitemapSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapSource{client: client, siteURL: siteURL, filter: filter}
}

// Enumerate returns the filtered sitemap URLs in document order. A site
// without sitemaps yields an empty slice; a sitemap that cannot be read
// is EUNAVAILABLE.
func (s *SitemapSource) Enumerate(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roots, err := s.roots(ctx)
	if err != nil {
		return nil, s.wrap(ctx, err)
	}

	seen := make(map[string]bool)
	var urls []string
	for _, root := range roots {
		found, err := s.read(ctx, root, seen, 0)
		if err != nil {
			return nil, s.wrap(ctx, err)
		}
		urls = append(urls, found...)
	}

	out, _ := s.filter.Apply(urls)
	return out, nil
}

func (s *SitemapSource) wrap(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if sdkdoc.ErrorCode(err) == sdkdoc.EINVALID {
		return err
	}
	msg := err.Error()
	if sdkdoc.ErrorCode(err) != sdkdoc.EINTERNAL {
		msg = sdkdoc.ErrorMessage(err)
	}
	return sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "read sitemap: %s", msg)
}

// roots returns the sitemap documents to start from.
func (s *SitemapSource) roots(ctx context.Context) ([]string, error) {
	if strings.HasSuffix(strings.ToLower(s.siteURL), ".xml") {
		return []string{s.siteURL}, nil
	}

	site, err := url.Parse(s.siteURL)
	if err != nil || site.Host == "" {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "invalid site URL %q", s.siteURL)
	}
	origin := &url.URL{Scheme: site.Scheme, Host: site.Host}

	if listed, err := s.robotsSitemaps(ctx, origin.JoinPath("robots.txt").String()); err == nil && len(listed) > 0 {
		return listed, nil
	}

	fallback := origin.JoinPath("sitemap.xml").String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps returns the Sitemap directives of a robots.txt file.
func (s *SitemapSource) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) <= len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// read returns the page URLs of one sitemap, following sitemap indexes.
// Each sitemap document is read at most once.
func (s *SitemapSource) read(ctx context.Context, sitemapURL string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}
	if depth >= maxSitemapDepth {
		return nil, fmt.Errorf("sitemap index %s nested too deep", sitemapURL)
	}

	var urls []string
	for _, child := range locs(root, "sitemap") {
		found, err := s.read(ctx, child, seen, depth+1)
		if err != nil {
			return nil, err
		}
		urls = append(urls, found...)
	}
	return urls, nil
}

// locs returns the non-empty <loc> texts of root's tag children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapSource) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if err := sdkdoc.StatusError(resp.StatusCode, target); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (s *SitemapSource) exists(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
