// Package diffmatchpatch measures page revisions with sergi/go-diff.
package diffmatchpatch

import (
	"strings"
	"time"

	"github.com/fwojciec/sdkdoc"
	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// defaultTimeout bounds the diff on very large pages.
const defaultTimeout = 2 * time.Second

// Ensure Differ implements sdkdoc.Differ at compile time.
var _ sdkdoc.Differ = (*Differ)(nil)

// Differ counts changed lines between two Markdown revisions.
type Differ struct {
	Timeout time.Duration
}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{Timeout: defaultTimeout}
}

// Diff returns line counts of inserted, deleted and unchanged text.
func (d *Differ) Diff(before, after string) sdkdoc.DiffStats {
	m := dmp.New()
	m.DiffTimeout = d.Timeout

	a, b, lines := m.DiffLinesToChars(before, after)
	diffs := m.DiffCharsToLines(m.DiffMain(a, b, false), lines)

	var stats sdkdoc.DiffStats
	for _, diff := range diffs {
		n := countLines(diff.Text)
		switch diff.Type {
		case dmp.DiffInsert:
			stats.Insertions += n
		case dmp.DiffDelete:
			stats.Deletions += n
		case dmp.DiffEqual:
			stats.Unchanged += n
		}
	}
	return stats
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
