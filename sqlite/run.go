package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/sdkdoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sdkdoc.RunService = (*RunService)(nil)

// RunService implements sdkdoc.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a finished run with a generated ID.
func (s *RunService) CreateRun(ctx context.Context, run *sdkdoc.Run) error {
	if run.StartedAt.IsZero() {
		return sdkdoc.Errorf(sdkdoc.EINVALID, "run start time required")
	}
	failures, err := marshalJSON(run.Failures)
	if err != nil {
		return err
	}

	run.ID = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, total, selected, new, changed, unchanged, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Total, run.Selected,
		run.New, run.Changed, run.Unchanged, failures)
	return err
}

// FindRuns returns up to limit runs, most recent first. A limit of zero
// returns every run.
func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*sdkdoc.Run, error) {
	var query strings.Builder
	var args []any
	query.WriteString(`
		SELECT id, started_at, finished_at, total, selected, new, changed, unchanged, failures
		FROM runs
		ORDER BY started_at DESC, rowid DESC`)
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*sdkdoc.Run{}
	for rows.Next() {
		var (
			run                             sdkdoc.Run
			startedAt, finishedAt, failures string
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Total, &run.Selected,
			&run.New, &run.Changed, &run.Unchanged, &failures); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(failures), &run.Failures); err != nil {
			return nil, fmt.Errorf("failed to parse failures: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
