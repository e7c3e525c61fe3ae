package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
)

// Run executes the categorize command.
func (c *CategorizeCmd) Run(deps *Dependencies) error {
	urls, err := deps.Enumerator.Enumerate(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}
	groups := sdkdoc.CategorizeAll(urls)

	if c.JSON || c.Output != "" {
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return deps.fail(sdkdoc.Errorf(sdkdoc.EINTERNAL, "encode categories: %v", err))
		}
		data = append(data, '\n')
		if c.Output == "" {
			_, err = deps.Stdout.Write(data)
			return err
		}
		if err := fs.WriteFileAtomic(c.Output, data, 0o644); err != nil {
			return deps.fail(err)
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d URLs in %d categories to %s\n", len(urls), len(groups), c.Output)
		return nil
	}

	for _, cat := range sdkdoc.Categories {
		fmt.Fprintf(deps.Stdout, "%-20s %-32s %4d\n", cat.Name, cat.Title, len(groups[cat.Name]))
	}
	fmt.Fprintf(deps.Stdout, "%-20s %-32s %4d\n", "Total", "", len(urls))
	return nil
}
