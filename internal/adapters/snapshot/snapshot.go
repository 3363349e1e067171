// Package snapshot publishes and loads point-in-time dataset snapshots.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/okian/evalhub/internal/domain/model"
)

const (
	lockSuffix     = ".lock"
	lockRetryDelay = 100 * time.Millisecond
	dirPermission  = 0o755
	filePermission = 0o644
)

// Encode writes the snapshot form of ds to w.
func Encode(w io.Writer, ds model.Dataset) error {
	return json.NewEncoder(w).Encode(ds.Snapshot())
}

// Write publishes ds to path. Concurrent writers are serialized with an
// advisory lock next to the file and readers only ever see a complete file.
// The context bounds how long Write waits for the lock.
func Write(ctx context.Context, path string, ds model.Dataset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLocked, path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := Encode(tmp, ds); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Chmod(filePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", path, err)
	}
	return nil
}

// Decode reads a snapshot from r.
func Decode(r io.Reader) (model.Dataset, error) {
	var snap model.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if snap.Evals == nil {
		return model.Dataset{}, fmt.Errorf("%w: missing evals", ErrInvalid)
	}
	return snap.Dataset(), nil
}

// Load reads the snapshot file at path.
func Load(path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
