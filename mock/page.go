package mock

import (
	"context"

	"github.com/fwojciec/sdkdoc"
)

var _ sdkdoc.PageService = (*PageService)(nil)

// PageService is a mock implementation of sdkdoc.PageService.
type PageService struct {
	FindPageByURLFn    func(ctx context.Context, url string) (*sdkdoc.Page, error)
	FindPagesFn        func(ctx context.Context, filter sdkdoc.PageFilter) ([]*sdkdoc.Page, error)
	SavePageFn         func(ctx context.Context, page *sdkdoc.Page) error
	PreviousMarkdownFn func(ctx context.Context, url string) (string, error)
	DeletePageFn       func(ctx context.Context, url string) error
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*sdkdoc.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter sdkdoc.PageFilter) ([]*sdkdoc.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) SavePage(ctx context.Context, page *sdkdoc.Page) error {
	return s.SavePageFn(ctx, page)
}

func (s *PageService) PreviousMarkdown(ctx context.Context, url string) (string, error) {
	return s.PreviousMarkdownFn(ctx, url)
}

func (s *PageService) DeletePage(ctx context.Context, url string) error {
	return s.DeletePageFn(ctx, url)
}

var _ sdkdoc.RunService = (*RunService)(nil)

// RunService is a mock implementation of sdkdoc.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *sdkdoc.Run) error
	FindRunsFn  func(ctx context.Context, limit int) ([]*sdkdoc.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *sdkdoc.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, limit int) ([]*sdkdoc.Run, error) {
	return s.FindRunsFn(ctx, limit)
}

var _ sdkdoc.Differ = (*Differ)(nil)

// Differ is a mock implementation of sdkdoc.Differ.
type Differ struct {
	DiffFn func(before, after string) sdkdoc.DiffStats
}

func (d *Differ) Diff(before, after string) sdkdoc.DiffStats {
	return d.DiffFn(before, after)
}
