package main

import (
	"fmt"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	var counter sdkdoc.TokenCounter
	if c.Tokens {
		if deps.Tokens == nil {
			return deps.fail(sdkdoc.Errorf(sdkdoc.EUNAVAILABLE, "token counter not available"))
		}
		counter = deps.Tokens
	}

	stats, err := deps.Docs.Stats(deps.Ctx, counter)
	if err != nil {
		return deps.fail(err)
	}

	for _, f := range stats.Files {
		line := fmt.Sprintf("%-36s %10s %4d sections %4d cpp blocks", f.Path, crawl.FormatBytes(f.Bytes), f.Sections, f.CodeBlocks)
		if c.Tokens {
			line += "  " + crawl.FormatTokens(f.Tokens)
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	fmt.Fprintf(deps.Stdout, "\n%d files, %s, %d API sections, %d cpp blocks",
		len(stats.Files), crawl.FormatBytes(stats.Bytes), stats.Sections, stats.CodeBlocks)
	if c.Tokens {
		fmt.Fprintf(deps.Stdout, ", %s", crawl.FormatTokens(stats.Tokens))
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
