package main

import (
	"fmt"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/fs"
)

// Run executes the validate command. It fails when the report holds
// error-severity issues.
func (c *ValidateCmd) Run(deps *Dependencies) error {
	catalog, err := deps.Enumerator.Enumerate(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}
	pages, err := deps.Pages.FindPages(deps.Ctx, sdkdoc.PageFilter{})
	if err != nil {
		return deps.fail(err)
	}

	issues := sdkdoc.CheckCompleteness(catalog, pages)
	issues = append(issues, sdkdoc.CheckContentQuality(pages)...)

	docIssues, files, err := deps.Docs.Check(deps.Ctx)
	switch {
	case sdkdoc.ErrorCode(err) == sdkdoc.ENOTFOUND:
		issues = append(issues, sdkdoc.Issue{
			Type:     "MISSING_DOCS",
			Message:  "Documentation directory not found: " + deps.Docs.Root(),
			Severity: sdkdoc.SeverityError,
		})
	case err != nil:
		return deps.fail(err)
	default:
		issues = append(issues, docIssues...)
	}

	manifestIssues, err := fs.CheckContext7(deps.Context7Path, deps.Schema)
	if err != nil {
		return deps.fail(err)
	}
	issues = append(issues, manifestIssues...)

	report := sdkdoc.NewValidationReport(issues, sdkdoc.CollectStats(catalog, pages, files), deps.now())
	if err := fs.WriteReport(deps.Config.ReportPath, report); err != nil {
		return deps.fail(err)
	}

	if !c.Quiet {
		for _, group := range [][]sdkdoc.Issue{report.Errors, report.Warnings, report.Info} {
			for _, i := range group {
				fmt.Fprintln(deps.Stdout, i.String())
			}
		}
	}
	fmt.Fprintf(deps.Stdout, "Errors: %d  Warnings: %d  Quality score: %.1f/100\n",
		report.Summary.TotalErrors, report.Summary.TotalWarnings, report.Summary.QualityScore)
	for _, r := range report.Recommendations {
		fmt.Fprintf(deps.Stdout, "- %s\n", r)
	}
	fmt.Fprintf(deps.Stdout, "Report written to %s\n", deps.Config.ReportPath)

	if !report.Summary.Passed {
		return sdkdoc.Errorf(sdkdoc.EINVALID, "validation failed with %d errors", report.Summary.TotalErrors)
	}
	return nil
}
