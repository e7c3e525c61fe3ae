package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/sdkdoc"
	"github.com/fwojciec/sdkdoc/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	if deps.Pipeline.Progress == nil {
		deps.Pipeline.Progress = crawl.NewProgressPrinter(deps.Stdout)
	}

	var (
		run *sdkdoc.Run
		err error
	)
	if c.Recheck {
		run, err = deps.Pipeline.Recheck(deps.Ctx)
	} else {
		run, err = deps.Pipeline.Run(deps.Ctx)
	}
	if err != nil {
		return deps.fail(err)
	}

	printRun(deps.Stdout, run)
	return nil
}

func printRun(w io.Writer, run *sdkdoc.Run) {
	fmt.Fprintf(w, "Run finished: %s\n", summarizeRun(run))
	if len(run.Failures) == 0 {
		return
	}
	fmt.Fprintln(w, "Failures:")
	for _, f := range run.Failures {
		fmt.Fprintf(w, "  %s [%s] %s\n", f.ID, f.Code, f.Reason)
	}
}

func summarizeRun(run *sdkdoc.Run) string {
	return fmt.Sprintf("%d new, %d changed, %d unchanged, %d failed of %d",
		run.New, run.Changed, run.Unchanged, len(run.Failures), run.Total)
}
