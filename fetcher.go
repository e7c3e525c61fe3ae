package sdkdoc

import (
	"context"
	"net/http"
)

// Fetcher retrieves raw HTML for a URL.
type Fetcher interface {
	// Fetch returns the page HTML. Failures carry a code that decides
	// whether another attempt is worthwhile: ENOTFOUND and EFORBIDDEN are
	// terminal, EUNAVAILABLE covers timeouts, connection failures and
	// unexpected statuses.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// StatusError classifies an HTTP status code for url. It returns nil for
// 200 OK.
func StatusError(status int, url string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return Errorf(ENOTFOUND, "page not found (404): %s", url)
	case status == http.StatusForbidden:
		return Errorf(EFORBIDDEN, "access forbidden (403): %s", url)
	default:
		return Errorf(EUNAVAILABLE, "HTTP %d for %s", status, url)
	}
}
