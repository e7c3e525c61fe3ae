package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Frontier configuration for link discovery.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// DefaultMaxURLs limits the number of pages fetched by one discovery.
	DefaultMaxURLs = 1000
	// defaultDiscoverConcurrency is lower than the pipeline pool; discovery
	// fetches every page just to read its links.
	defaultDiscoverConcurrency = 3
)

// Discoverer walks same-site links from a start page to build a catalog.
type Discoverer struct {
	Fetcher     sdkdoc.Fetcher
	Selector    sdkdoc.LinkSelector
	RateLimiter sdkdoc.DomainLimiter
	// Filter scopes discovered links; nil keeps links under the start URL's path.
	Filter *sdkdoc.URLFilter
	// Frontier overrides the in-memory Bloom filter frontier.
	Frontier sdkdoc.URLFrontier

	Concurrency int
	MaxURLs     int
	RetryDelays []time.Duration
	Timeout     time.Duration

	Logger *slog.Logger
	// OnURL, if set, is called for each fetched URL.
	OnURL func(url string)
}

// discovered is the outcome of fetching one page during discovery.
type discovered struct {
	url   string
	links []sdkdoc.DiscoveredLink
	err   error
}

// DiscoverURLs fetches pages starting at sourceURL, following links that
// stay on the same host and pass the filter, and returns the catalog of
// pages that were fetched successfully, sorted and filtered. Pages that
// fail to fetch are skipped.
func (d *Discoverer) DiscoverURLs(ctx context.Context, sourceURL string) ([]string, error) {
	source, err := url.Parse(sourceURL)
	if err != nil || source.Host == "" {
		return nil, sdkdoc.Errorf(sdkdoc.EINVALID, "invalid source URL %q", sourceURL)
	}

	var urls []string
	err = d.walk(ctx, sourceURL, func(res discovered, frontier sdkdoc.URLFrontier) {
		for _, link := range res.links {
			if d.inScope(source, link.URL) {
				frontier.Push(link)
			}
		}
		if res.err != nil {
			d.logger().Debug("discovery fetch failed", "url", res.url, "err", res.err)
			return
		}
		urls = append(urls, res.url)
		if d.OnURL != nil {
			d.OnURL(res.url)
		}
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(urls)
	if d.Filter != nil {
		urls, _ = d.Filter.Apply(urls)
	}
	return urls, nil
}

func (d *Discoverer) inScope(source *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != source.Host {
		return false
	}
	if d.Filter != nil {
		return d.Filter.Match(rawURL)
	}
	return strings.HasPrefix(u.Path, source.Path)
}

// walk runs the coordinator loop: it pops links from the frontier, hands
// them to a fixed pool of workers and passes each result to handle. Only
// the coordinator touches handle, so it needs no locking.
func (d *Discoverer) walk(ctx context.Context, sourceURL string, handle func(discovered, sdkdoc.URLFrontier)) error {
	frontier := d.Frontier
	if frontier == nil {
		frontier = NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	}
	frontier.Push(sdkdoc.DiscoveredLink{URL: sourceURL, Priority: sdkdoc.PriorityNavigation})

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = defaultDiscoverConcurrency
	}
	maxURLs := d.MaxURLs
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}

	workCh := make(chan sdkdoc.DiscoveredLink)
	resultCh := make(chan discovered)
	done := make(chan struct{})
	defer close(done)

	for range concurrency {
		go func() {
			for link := range workCh {
				res := d.fetchLinks(ctx, link)
				select {
				case resultCh <- res:
				case <-done:
					return
				}
			}
		}()
	}
	defer close(workCh)

	dispatched, pending := 0, 0
	var next *sdkdoc.DiscoveredLink
	if link, ok := frontier.Pop(); ok {
		next = &link
	}

	for next != nil || pending > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		if next != nil && dispatched < maxURLs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(res, frontier)
			}
		} else {
			if pending == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case res := <-resultCh:
				pending--
				handle(res, frontier)
			}
		}

		if next == nil && dispatched < maxURLs {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}

	return nil
}

func (d *Discoverer) fetchLinks(ctx context.Context, link sdkdoc.DiscoveredLink) discovered {
	res := discovered{url: link.URL}

	linkURL, err := url.Parse(link.URL)
	if err != nil {
		res.err = sdkdoc.Errorf(sdkdoc.EINVALID, "invalid URL %q", link.URL)
		return res
	}
	if d.RateLimiter != nil {
		if err := d.RateLimiter.Wait(ctx, linkURL.Host); err != nil {
			res.err = err
			return res
		}
	}

	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	policy := RetryPolicy{Delays: delays, Timeout: d.Timeout}
	html, err := policy.Fetch(ctx, link.URL, d.Fetcher.Fetch)
	if err != nil {
		res.err = err
		return res
	}

	links, err := d.Selector.ExtractLinks(html, link.URL)
	if err != nil {
		d.logger().Debug("link extraction failed", "url", link.URL, "err", err)
	}
	res.links = links
	return res
}

func (d *Discoverer) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
