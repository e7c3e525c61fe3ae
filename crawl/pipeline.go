// Package crawl runs the incremental processing pipeline. It selects the
// identifiers that need work, fetches and transforms them on a bounded
// worker pool and persists the new fingerprints once all workers have
// finished. It also discovers catalogs by walking links from a start page.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/sdkdoc"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultWorkers is the pool size used when Pipeline.Workers is unset.
const DefaultWorkers = 5

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Pipeline coordinates one run over the enumerated identifiers.
//
// Workers only fetch and transform. The fingerprint map is read, merged and
// saved by the goroutine that called Run, so the store sees exactly one Save
// per run that had work to do.
type Pipeline struct {
	Store       sdkdoc.FingerprintStore
	Enumerator  sdkdoc.Enumerator
	Fetcher     sdkdoc.Fetcher
	Transformer sdkdoc.Transformer

	// Pages receives every page whose content was new or changed.
	Pages sdkdoc.PageService
	// Differ summarizes changed pages against their previous revision.
	// It is only used together with Pages.
	Differ sdkdoc.Differ
	// Runs records a summary of every run.
	Runs sdkdoc.RunService

	Logger   *slog.Logger
	Progress ProgressFunc

	Workers     int
	RateDelay   time.Duration
	Timeout     time.Duration
	RetryDelays []time.Duration

	Now func() time.Time
}

// NewPipeline returns a pipeline configured from cfg.
func NewPipeline(cfg sdkdoc.Config, store sdkdoc.FingerprintStore, enum sdkdoc.Enumerator, fetcher sdkdoc.Fetcher, transformer sdkdoc.Transformer) *Pipeline {
	return &Pipeline{
		Store:       store,
		Enumerator:  enum,
		Fetcher:     fetcher,
		Transformer: transformer,
		Workers:     cfg.Workers,
		RateDelay:   cfg.RateDelay,
		Timeout:     cfg.Timeout,
		RetryDelays: cfg.RetryDelays,
	}
}

// Plan is the classification of a catalog against the store, computed
// without fetching anything.
type Plan struct {
	Classifications []sdkdoc.Classification
	// Selected holds the identifiers a Run would process, in catalog order.
	Selected   []string
	LastUpdate time.Time
}

// Counts tallies the plan by status.
func (p *Plan) Counts() map[sdkdoc.Status]int {
	return sdkdoc.CountStatuses(p.Classifications)
}

// Plan loads the store, enumerates identifiers and classifies them by
// presence. Nothing is fetched or written.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	store, ids, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	last, err := p.Store.LastUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("read last update: %w", err)
	}
	return &Plan{
		Classifications: sdkdoc.Classify(ids, store, nil),
		Selected:        sdkdoc.SelectForReprocessing(ids, store),
		LastUpdate:      last,
	}, nil
}

// Run processes the identifiers missing from the store. An empty change
// set is a successful run that saves nothing. Per-identifier failures are
// reported in the returned run and leave their fingerprint untouched; only
// a failure to load, enumerate or save is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*sdkdoc.Run, error) {
	return p.run(ctx, false)
}

// Recheck processes every enumerated identifier and compares the digest of
// the new content with the stored one. Only New and Changed pages are
// rewritten; the store is saved once.
func (p *Pipeline) Recheck(ctx context.Context) (*sdkdoc.Run, error) {
	return p.run(ctx, true)
}

func (p *Pipeline) run(ctx context.Context, recheck bool) (*sdkdoc.Run, error) {
	run := &sdkdoc.Run{StartedAt: p.now()}

	store, ids, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	run.Total = len(ids)

	subset := ids
	if !recheck {
		subset = sdkdoc.SelectForReprocessing(ids, store)
	}
	run.Selected = len(subset)
	run.Unchanged = len(ids) - len(subset)

	if len(subset) == 0 {
		run.FinishedAt = p.now()
		p.logger().Info("nothing to process", "total", run.Total)
		p.record(ctx, run)
		return run, nil
	}

	results := p.process(ctx, subset)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fresh := make(map[string]sdkdoc.Digest, len(results))
	for _, r := range results {
		if r.err == nil {
			fresh[r.id] = r.page.Fingerprint
		}
	}

	updated := store.Clone()
	for i, c := range sdkdoc.Classify(subset, store, fresh) {
		r := results[i]
		if r.err != nil {
			run.Failures = append(run.Failures, sdkdoc.NewFailure(r.id, r.err))
			continue
		}
		if c.Status == sdkdoc.StatusUnchanged {
			run.Unchanged++
			continue
		}
		if err := p.savePage(ctx, c, r.page); err != nil {
			run.Failures = append(run.Failures, sdkdoc.NewFailure(r.id, err))
			continue
		}
		if c.Status == sdkdoc.StatusNew {
			run.New++
		} else {
			run.Changed++
		}
		updated[c.ID] = c.Fresh
	}

	if err := p.Store.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save fingerprints: %w", err)
	}

	run.FinishedAt = p.now()
	p.logger().Info("run finished",
		"total", run.Total,
		"selected", run.Selected,
		"new", run.New,
		"changed", run.Changed,
		"unchanged", run.Unchanged,
		"failed", len(run.Failures),
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)
	p.record(ctx, run)
	return run, nil
}

func (p *Pipeline) load(ctx context.Context) (sdkdoc.Fingerprints, []string, error) {
	store, err := p.Store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load fingerprints: %w", err)
	}
	ids, err := p.Enumerator.Enumerate(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate identifiers: %w", err)
	}
	return store, ids, nil
}

// result is the outcome of one identifier; pos is its index in the subset.
type result struct {
	pos  int
	id   string
	page *sdkdoc.Page
	err  error
}

// process fans ids out to the worker pool and collects one result per id,
// indexed by position so the merge does not depend on completion order.
func (p *Pipeline) process(ctx context.Context, ids []string) []result {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	workers = min(workers, len(ids))

	workCh := make(chan int)
	resultCh := make(chan result)

	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			limiter := newWorkerLimiter(p.RateDelay)
			for pos := range workCh {
				resultCh <- p.processOne(gctx, limiter, pos, ids[pos])
			}
			return nil
		})
	}

	go func() {
		defer close(workCh)
		for pos := range ids {
			select {
			case workCh <- pos:
			case <-gctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = g.Wait()
		close(resultCh)
	}()

	p.report(ProgressEvent{Type: ProgressStarted, Total: len(ids)})

	results := make([]result, len(ids))
	completed := 0
	for r := range resultCh {
		results[r.pos] = r
		completed++
		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: len(ids), URL: r.id}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
			p.logger().Warn("processing failed", "url", r.id, "code", sdkdoc.ErrorCode(r.err), "err", r.err)
		}
		p.report(event)
	}

	p.report(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: len(ids)})
	return results
}

func (p *Pipeline) processOne(ctx context.Context, limiter *rate.Limiter, pos int, id string) result {
	r := result{pos: pos, id: id}

	if err := limiter.Wait(ctx); err != nil {
		r.err = err
		return r
	}

	policy := RetryPolicy{
		Delays:  p.RetryDelays,
		Timeout: p.Timeout,
		OnRetry: func(url string, attempt int, err error) {
			p.logger().Debug("retrying fetch", "url", url, "attempt", attempt, "err", err)
		},
	}
	if policy.Delays == nil {
		policy.Delays = DefaultRetryDelays()
	}

	html, err := policy.Fetch(ctx, id, p.Fetcher.Fetch)
	if err != nil {
		r.err = err
		return r
	}

	page, err := p.Transformer.Transform(id, html)
	if err != nil {
		if sdkdoc.ErrorCode(err) == sdkdoc.EINTERNAL {
			err = sdkdoc.Errorf(sdkdoc.ETRANSFORM, "transform %s: %v", id, err)
		}
		r.err = err
		return r
	}

	// The stored digest always covers the final Markdown.
	page.Fingerprint = sdkdoc.FingerprintString(page.Markdown)
	r.page = page
	return r
}

func (p *Pipeline) savePage(ctx context.Context, c sdkdoc.Classification, page *sdkdoc.Page) error {
	if p.Pages == nil {
		return nil
	}
	if err := p.Pages.SavePage(ctx, page); err != nil {
		return err
	}
	if c.Status != sdkdoc.StatusChanged || p.Differ == nil {
		return nil
	}
	before, err := p.Pages.PreviousMarkdown(ctx, page.URL)
	if err != nil {
		if sdkdoc.ErrorCode(err) != sdkdoc.ENOTFOUND {
			p.logger().Warn("read previous revision", "url", page.URL, "err", err)
		}
		return nil
	}
	d := p.Differ.Diff(before, page.Markdown)
	p.logger().Info("page changed",
		"url", page.URL,
		"insertions", d.Insertions,
		"deletions", d.Deletions,
	)
	return nil
}

func (p *Pipeline) record(ctx context.Context, run *sdkdoc.Run) {
	if p.Runs == nil {
		return
	}
	if err := p.Runs.CreateRun(ctx, run); err != nil {
		p.logger().Warn("record run", "err", err)
	}
}

func (p *Pipeline) report(event ProgressEvent) {
	if p.Progress != nil {
		p.Progress(event)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}
