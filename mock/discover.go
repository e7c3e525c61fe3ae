package mock

import (
	"context"

	"github.com/fwojciec/sdkdoc"
)

var _ sdkdoc.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of sdkdoc.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]sdkdoc.DiscoveredLink, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]sdkdoc.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

var _ sdkdoc.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sdkdoc.URLFrontier.
type URLFrontier struct {
	PushFn func(link sdkdoc.DiscoveredLink) bool
	PopFn  func() (sdkdoc.DiscoveredLink, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(link sdkdoc.DiscoveredLink) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (sdkdoc.DiscoveredLink, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ sdkdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sdkdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
