package main

import (
	"fmt"

	"github.com/fwojciec/sdkdoc"
)

// Run executes the organize command.
func (c *OrganizeCmd) Run(deps *Dependencies) error {
	pages, err := deps.Pages.FindPages(deps.Ctx, sdkdoc.PageFilter{})
	if err != nil {
		return deps.fail(err)
	}
	if len(pages) == 0 {
		return deps.fail(sdkdoc.Errorf(sdkdoc.ENOTFOUND, "no processed pages; run 'sdkdoc run' first"))
	}

	// Without a catalog, categories list only processed pages.
	catalog, err := deps.Enumerator.Enumerate(deps.Ctx)
	if err != nil && sdkdoc.ErrorCode(err) != sdkdoc.ENOTFOUND {
		return deps.fail(err)
	}

	if err := deps.Organizer.Organize(deps.Ctx, pages, catalog); err != nil {
		_ = deps.Organizer.Abort()
		return deps.fail(err)
	}
	if err := deps.Organizer.Commit(); err != nil {
		return deps.fail(sdkdoc.Errorf(sdkdoc.EPERSIST, "commit docs tree: %v", err))
	}
	if err := deps.Organizer.WriteContext7(); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Organized %d pages into %d documents in %s\n",
		len(pages), sdkdoc.ExpectedDocFiles(), deps.Organizer.Dir())
	return nil
}
