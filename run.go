package sdkdoc

import (
	"context"
	"time"
)

// Failure records why one identifier could not be processed in a run.
type Failure struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// NewFailure builds a failure report entry from an error.
func NewFailure(id string, err error) Failure {
	reason := ErrorMessage(err)
	if ErrorCode(err) == EINTERNAL {
		reason = err.Error()
	}
	return Failure{ID: id, Code: ErrorCode(err), Reason: reason}
}

// Run is the summary of one pipeline run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	// Total is the number of identifiers enumerated.
	Total int
	// Selected is the size of the change set handed to workers.
	Selected  int
	New       int
	Changed   int
	Unchanged int
	Failures  []Failure
}

// Succeeded returns the number of identifiers whose fingerprint was updated.
func (r *Run) Succeeded() int {
	return r.New + r.Changed
}

// RunService records pipeline run history.
type RunService interface {
	// CreateRun stores a finished run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns returns the most recent runs first.
	FindRuns(ctx context.Context, limit int) ([]*Run, error)
}

// DiffStats summarizes how a page's content changed.
type DiffStats struct {
	Insertions int
	Deletions  int
	Unchanged  int
}

// Differ compares two versions of a page.
type Differ interface {
	Diff(before, after string) DiffStats
}
