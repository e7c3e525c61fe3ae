package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/sdkdoc"
)

// Run executes the plan command.
func (c *PlanCmd) Run(deps *Dependencies) error {
	plan, err := deps.Pipeline.Plan(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}

	counts := plan.Counts()
	fmt.Fprintf(deps.Stdout, "Catalog:    %d pages\n", len(plan.Classifications))
	fmt.Fprintf(deps.Stdout, "New:        %d\n", counts[sdkdoc.StatusNew])
	fmt.Fprintf(deps.Stdout, "Unchanged:  %d\n", counts[sdkdoc.StatusUnchanged])
	fmt.Fprintf(deps.Stdout, "Last update: %s\n", formatTime(plan.LastUpdate))

	if c.List {
		for _, id := range plan.Selected {
			fmt.Fprintf(deps.Stdout, "  %s\n", id)
		}
	}

	if c.History > 0 && deps.Runs != nil {
		runs, err := deps.Runs.FindRuns(deps.Ctx, c.History)
		if err != nil {
			return deps.fail(err)
		}
		fmt.Fprintln(deps.Stdout, "Recent runs:")
		for _, r := range runs {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", formatTime(r.StartedAt), summarizeRun(r))
		}
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(time.RFC3339)
}
