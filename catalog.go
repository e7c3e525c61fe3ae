package sdkdoc

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// Enumerator produces the ordered list of identifiers to track.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]string, error)
}

// URLFilter scopes a catalog to one documentation site.
type URLFilter struct {
	// Host must equal the URL host. Empty accepts any host.
	Host string

	// PathPrefix must prefix the URL path, e.g. "/sdk/".
	PathPrefix string

	// Exclude patterns are matched against the URL path.
	Exclude []*regexp.Regexp
}

// DefaultExcludes skips the prefix root, index pages and search pages.
func DefaultExcludes(prefix string) []*regexp.Regexp {
	p := regexp.QuoteMeta(strings.TrimSuffix(prefix, "/"))
	return []*regexp.Regexp{
		regexp.MustCompile(`^` + p + `/?$`),
		regexp.MustCompile(`^` + p + `/index`),
		regexp.MustCompile(`^` + p + `/search`),
	}
}

// Valid reports whether rawURL is an absolute http(s) URL inside the
// filter's host and path prefix. Exclusions are not applied.
func (f *URLFilter) Valid(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	if f == nil {
		return true
	}
	if f.Host != "" && !strings.EqualFold(u.Host, f.Host) {
		return false
	}
	return strings.HasPrefix(u.Path, f.PathPrefix)
}

// Match reports whether rawURL is valid and not excluded.
// If the filter is nil, every valid URL passes.
func (f *URLFilter) Match(rawURL string) bool {
	if !f.Valid(rawURL) {
		return false
	}
	if f == nil {
		return true
	}
	u, _ := url.Parse(rawURL)
	for _, re := range f.Exclude {
		if re.MatchString(u.Path) {
			return false
		}
	}
	return true
}

// Apply returns the URLs that match the filter with surrounding space
// trimmed and duplicates dropped, preserving order. The second result
// counts rejected entries.
func (f *URLFilter) Apply(urls []string) ([]string, int) {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	rejected := 0
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if !f.Match(u) {
			rejected++
			continue
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out, rejected
}

// PageName returns the last non-empty path segment of rawURL, which is
// what categorization and document naming key on.
func PageName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return segments[len(segments)-1]
}
