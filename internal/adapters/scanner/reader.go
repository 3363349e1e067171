package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/pkg/logger"
)

// Reader turns one benchmark directory into a record.
type Reader struct {
	manifestName   string
	notesName      string
	reservedPrefix string
	reservedDirs   map[string]struct{}
	concurrency    int
	logger         logger.Logger
}

// NewReader creates a Reader with the default directory layout.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		manifestName:   DefaultManifestName,
		notesName:      DefaultNotesName,
		reservedPrefix: DefaultReservedPrefix,
		concurrency:    runtime.NumCPU(),
		logger:         logger.Nop(),
	}
	WithReservedDirs(DefaultReservedDirs)(r)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Excluded reports whether a directory name is reserved and must not be read.
func (r *Reader) Excluded(name string) bool {
	if r.reservedPrefix != "" && strings.HasPrefix(name, r.reservedPrefix) {
		return true
	}
	_, ok := r.reservedDirs[name]
	return ok
}

// Read builds the record for dir without the notes body.
// It returns ErrSkipped for reserved names and directories without a manifest,
// and a *ManifestError (matching ErrParse) when the manifest cannot be used.
// Parse failures are logged here; callers only count them.
func (r *Reader) Read(ctx context.Context, dir string) (model.BenchmarkRecord, error) {
	id := filepath.Base(dir)
	if r.Excluded(id) {
		return model.BenchmarkRecord{}, ErrSkipped
	}

	manifestPath := filepath.Join(dir, r.manifestName)
	info, err := os.Stat(manifestPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return model.BenchmarkRecord{}, ErrSkipped
	case err != nil:
		return model.BenchmarkRecord{}, r.fail(ctx, manifestPath, err)
	case info.IsDir():
		return model.BenchmarkRecord{}, ErrSkipped
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return model.BenchmarkRecord{}, r.fail(ctx, manifestPath, err)
	}
	rec, err := decodeManifest(id, data)
	if err != nil {
		return model.BenchmarkRecord{}, r.fail(ctx, manifestPath, err)
	}

	rec.HasNotes = isFile(r.NotesPath(dir))
	rec.LastUpdated = info.ModTime().UTC().Truncate(time.Millisecond)
	return rec, nil
}

// NotesPath returns where the notes document of dir lives.
func (r *Reader) NotesPath(dir string) string {
	return filepath.Join(dir, r.notesName)
}

// ReadNotes reads the notes document of dir. ok is false when there is none.
func (r *Reader) ReadNotes(dir string) (body string, ok bool, err error) {
	b, err := os.ReadFile(r.NotesPath(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func (r *Reader) fail(ctx context.Context, path string, err error) error {
	merr := &ManifestError{Path: path, Err: err}
	r.logger.Error(ctx, "failed to parse manifest",
		logger.String("path", path),
		logger.Error(err),
	)
	return merr
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
