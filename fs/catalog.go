package fs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/fwojciec/sdkdoc"
)

// Ensure Catalog implements sdkdoc.Enumerator at compile time.
var _ sdkdoc.Enumerator = (*Catalog)(nil)

// Catalog enumerates identifiers from a flat URL list file, one URL per
// line. Blank lines and lines starting with # are ignored.
type Catalog struct {
	path   string
	filter *sdkdoc.URLFilter
	logger *slog.Logger
}

// NewCatalog returns a catalog reading path. URLs not matching filter are
// dropped; a nil filter keeps every absolute URL.
func NewCatalog(path string, filter *sdkdoc.URLFilter, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{path: path, filter: filter, logger: logger}
}

// Enumerate returns the catalog URLs in file order without duplicates.
// Returns ENOTFOUND if the catalog file does not exist.
func (c *Catalog) Enumerate(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, sdkdoc.Errorf(sdkdoc.ENOTFOUND, "catalog %s not found", c.path)
	} else if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	urls, rejected := c.filter.Apply(lines)
	if rejected > 0 {
		c.logger.Warn("catalog entries rejected", "path", c.path, "rejected", rejected, "kept", len(urls))
	}
	return urls, nil
}

// WriteCatalog writes urls as a catalog file, replacing path atomically.
func WriteCatalog(path string, urls []string) error {
	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}
	return WriteFileAtomic(path, []byte(b.String()), 0o644)
}
