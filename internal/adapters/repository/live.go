package repository

import (
	"context"
	"fmt"

	"github.com/okian/evalhub/internal/domain/model"
)

// LiveStore re-scans the evals root on every call. It holds no cache, so
// concurrent callers share nothing but the read-only filesystem.
type LiveStore struct {
	root string
	opts storeOptions
}

// NewLiveStore creates a store scanning root.
func NewLiveStore(root string, opts ...Option) *LiveStore {
	return &LiveStore{root: root, opts: buildOptions(opts)}
}

// Dataset scans the root.
func (s *LiveStore) Dataset(ctx context.Context) (model.Dataset, error) {
	ds, report, err := s.opts.extractor.Extract(ctx, s.root)
	if s.opts.observer != nil {
		s.opts.observer(report, err)
	}
	return ds, err
}

// Detail scans the root, finds id and reads its notes.
func (s *LiveStore) Detail(ctx context.Context, id string) (model.BenchmarkRecord, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return model.BenchmarkRecord{}, err
	}
	rec, ok := ds.Lookup(id)
	if !ok {
		return model.BenchmarkRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.opts.extractor.AttachNotes(&rec, s.root); err != nil {
		return model.BenchmarkRecord{}, err
	}
	return rec, nil
}

// Mode implements Store.
func (s *LiveStore) Mode() string { return ModeLive }

// Root returns the scanned directory.
func (s *LiveStore) Root() string { return s.root }
