package main

import (
	"fmt"

	"github.com/fwojciec/sdkdoc/fs"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	start := c.URL
	if start == "" {
		start = "https://" + deps.Config.Host + deps.Config.PathPrefix
	}
	if c.MaxURLs > 0 {
		deps.Discoverer.MaxURLs = c.MaxURLs
	}
	if c.Concurrency > 0 {
		deps.Discoverer.Concurrency = c.Concurrency
	}
	if c.Output != "" && deps.Discoverer.OnURL == nil {
		deps.Discoverer.OnURL = func(url string) {
			fmt.Fprintf(deps.Stderr, "  fetched %s\n", url)
		}
	}

	urls, err := deps.Discoverer.DiscoverURLs(deps.Ctx, start)
	if err != nil {
		return deps.fail(err)
	}

	if c.Output == "" {
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	if err := fs.WriteCatalog(c.Output, urls); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d URLs to %s\n", len(urls), c.Output)
	return nil
}
