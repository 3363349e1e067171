package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/evalhub/internal/adapters/snapshot"
	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/pkg/logger"
)

// SnapshotStore serves a dataset loaded once from a snapshot file.
type SnapshotStore struct {
	dataset model.Dataset
	root    string
	opts    storeOptions
}

// NewSnapshotStore wraps an already loaded dataset. root is where notes are
// read from on detail requests; it may be empty or absent on this machine.
func NewSnapshotStore(ds model.Dataset, root string, opts ...Option) *SnapshotStore {
	return &SnapshotStore{dataset: ds, root: root, opts: buildOptions(opts)}
}

// OpenSnapshotStore loads the snapshot file at path.
func OpenSnapshotStore(path, root string, opts ...Option) (*SnapshotStore, error) {
	ds, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return NewSnapshotStore(ds, root, opts...), nil
}

// Dataset returns the loaded snapshot.
func (s *SnapshotStore) Dataset(_ context.Context) (model.Dataset, error) {
	return s.dataset, nil
}

// Detail looks id up in the snapshot and attaches notes when the benchmark
// directory is reachable.
func (s *SnapshotStore) Detail(ctx context.Context, id string) (model.BenchmarkRecord, error) {
	rec, ok := s.dataset.Lookup(id)
	if !ok {
		return model.BenchmarkRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if s.root == "" || !isDir(filepath.Join(s.root, id)) {
		return rec, nil
	}
	if err := s.opts.extractor.AttachNotes(&rec, s.root); err != nil {
		s.opts.logger.Warn(ctx, "notes unavailable for snapshot record",
			logger.String("id", id),
			logger.Error(err),
		)
		return rec, nil
	}
	return rec, nil
}

// Mode implements Store.
func (s *SnapshotStore) Mode() string { return ModeSnapshot }

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
