package mock

import (
	"context"
	"time"

	"github.com/fwojciec/sdkdoc"
)

var _ sdkdoc.FingerprintStore = (*FingerprintStore)(nil)

// FingerprintStore is a mock implementation of sdkdoc.FingerprintStore.
type FingerprintStore struct {
	LoadFn       func(ctx context.Context) (sdkdoc.Fingerprints, error)
	SaveFn       func(ctx context.Context, f sdkdoc.Fingerprints) error
	InitializeFn func(ctx context.Context) error
	LastUpdateFn func(ctx context.Context) (time.Time, error)
}

func (s *FingerprintStore) Load(ctx context.Context) (sdkdoc.Fingerprints, error) {
	return s.LoadFn(ctx)
}

func (s *FingerprintStore) Save(ctx context.Context, f sdkdoc.Fingerprints) error {
	return s.SaveFn(ctx, f)
}

func (s *FingerprintStore) Initialize(ctx context.Context) error {
	return s.InitializeFn(ctx)
}

func (s *FingerprintStore) LastUpdate(ctx context.Context) (time.Time, error) {
	return s.LastUpdateFn(ctx)
}

var _ sdkdoc.Enumerator = (*Enumerator)(nil)

// Enumerator is a mock implementation of sdkdoc.Enumerator.
type Enumerator struct {
	EnumerateFn func(ctx context.Context) ([]string, error)
}

func (e *Enumerator) Enumerate(ctx context.Context) ([]string, error) {
	return e.EnumerateFn(ctx)
}
