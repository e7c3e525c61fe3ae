// Package rod fetches JavaScript-rendered pages with a headless Chrome
// browser driven by go-rod.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sdkdoc"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default time budget for one page load.
const DefaultFetchTimeout = 30 * time.Second

// serializeJS returns the document HTML including open shadow roots,
// falling back to outerHTML on browsers without getHTML.
const serializeJS = `() => {
	const roots = [];
	const walk = (node) => {
		for (const el of node.querySelectorAll('*')) {
			if (el.shadowRoot) {
				roots.push(el.shadowRoot);
				walk(el.shadowRoot);
			}
		}
	};
	walk(document);
	const root = document.documentElement;
	if (roots.length === 0 || typeof root.getHTML !== 'function') {
		return root.outerHTML;
	}
	return '<html>' + root.getHTML({ serializableShadowRoots: true, shadowRoots: roots }) + '</html>';
}`

// Ensure Fetcher implements sdkdoc.Fetcher at compile time.
var _ sdkdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	maxPage int64
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the time budget for loading one page.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages are loaded before the browser is
// restarted.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPage = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		maxPage: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPage))
	if err != nil {
		return nil, sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "start browser: %v", err)
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML. The status of
// the main document response is classified like an HTTP fetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", sdkdoc.Errorf(sdkdoc.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pageCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "open tab: %v", err)
	}
	defer page.Close()
	page = page.Context(pageCtx)

	restore := page.EnableDomain(&proto.NetworkEnable{})
	defer restore()

	// The main document status arrives while the page loads.
	var status atomic.Int64
	go page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status.Store(int64(e.Response.Status))
		return true
	})()

	if err := page.Navigate(url); err != nil {
		return "", f.classify(ctx, pageCtx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.classify(ctx, pageCtx, url, err)
	}
	if code := int(status.Load()); code != 0 {
		if err := sdkdoc.StatusError(code, url); err != nil {
			return "", err
		}
	}

	html, err := serialize(page)
	if err != nil {
		return "", f.classify(ctx, pageCtx, url, err)
	}
	f.manager.IncrementPageCount()

	return html, nil
}

// classify maps a browser failure to a coded error. Cancellation of the
// caller's context is returned as is.
func (f *Fetcher) classify(ctx, pageCtx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
		return sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "timeout fetching %s after %s", url, f.timeout)
	}
	var navErr *rod.NavigationError
	if errors.As(err, &navErr) {
		return sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "navigate %s: %s", url, navErr.Reason)
	}
	return sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "render %s: %v", url, err)
}

func serialize(page *rod.Page) (string, error) {
	res, err := page.Eval(serializeJS)
	if err == nil {
		if html := res.Value.Str(); html != "" {
			return html, nil
		}
	}
	return page.HTML()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
