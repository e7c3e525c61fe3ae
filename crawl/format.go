package crawl

import (
	"fmt"
	"io"

	"github.com/fwojciec/sdkdoc"
)

// progressURLWidth is the column width of URLs in progress lines.
const progressURLWidth = 60

// NewProgressPrinter returns a ProgressFunc writing one line per finished
// identifier to w.
func NewProgressPrinter(w io.Writer) ProgressFunc {
	return func(e ProgressEvent) {
		switch e.Type {
		case ProgressStarted:
			fmt.Fprintf(w, "Processing %d pages\n", e.Total)
		case ProgressCompleted:
			fmt.Fprintf(w, "[%d/%d] ok   %s\n", e.Completed, e.Total, TruncateURL(e.URL, progressURLWidth))
		case ProgressFailed:
			fmt.Fprintf(w, "[%d/%d] fail %s (%s)\n", e.Completed, e.Total, TruncateURL(e.URL, progressURLWidth), sdkdoc.ErrorCode(e.Error))
		}
	}
}

// TruncateURL shortens a URL for display, keeping the end which names the page.
func TruncateURL(url string, maxLen int) string {
	switch {
	case maxLen <= 0:
		return ""
	case len(url) <= maxLen:
		return url
	case maxLen < 4:
		return url[:maxLen]
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTokens formats a token count in human-readable form.
func FormatTokens(tokens int) string {
	if tokens < 1000 {
		return fmt.Sprintf("~%d tokens", tokens)
	}
	return fmt.Sprintf("~%dk tokens", (tokens+500)/1000)
}
