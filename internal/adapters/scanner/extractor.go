package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/okian/evalhub/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// Report summarizes one extraction.
type Report struct {
	Root     string
	Scanned  int
	Skipped  int
	Failures []*ManifestError
	Duration time.Duration
}

// Extractor scans the immediate children of a root directory.
type Extractor struct {
	reader *Reader
}

// NewExtractor creates an Extractor; options configure its Reader.
func NewExtractor(opts ...Option) *Extractor {
	return &Extractor{reader: NewReader(opts...)}
}

// Reader exposes the manifest reader used by the extractor.
func (e *Extractor) Reader() *Reader { return e.reader }

// Extract reads every benchmark directory directly under root.
// An unreadable root fails the whole call with ErrRootUnreadable; a broken
// manifest only drops its own directory and is listed in the report.
// Directories are read concurrently; records are ordered by id and failures
// by path.
func (e *Extractor) Extract(ctx context.Context, root string) (model.Dataset, Report, error) {
	start := time.Now()
	report := Report{Root: root}

	if err := ctx.Err(); err != nil {
		return model.Dataset{}, report, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return model.Dataset{}, report, fmt.Errorf("%w: %w", ErrRootUnreadable, err)
	}

	var (
		mu      sync.Mutex
		records = make([]model.BenchmarkRecord, 0, len(entries))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.reader.concurrency)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		report.Scanned++
		dir := filepath.Join(root, entry.Name())

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := e.reader.Read(gctx, dir)

			mu.Lock()
			defer mu.Unlock()
			var merr *ManifestError
			switch {
			case err == nil:
				records = append(records, rec)
			case errors.Is(err, ErrSkipped):
				report.Skipped++
			case errors.As(err, &merr):
				report.Failures = append(report.Failures, merr)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Dataset{}, report, err
	}

	slices.SortFunc(records, func(a, b model.BenchmarkRecord) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(report.Failures, func(a, b *ManifestError) int {
		return cmp.Compare(a.Path, b.Path)
	})
	report.Duration = time.Since(start)
	return model.NewDataset(records), report, nil
}

// AttachNotes reads the notes document of rec fresh from disk.
func (e *Extractor) AttachNotes(rec *model.BenchmarkRecord, root string) error {
	body, ok, err := e.reader.ReadNotes(filepath.Join(root, rec.ID))
	if err != nil {
		return fmt.Errorf("read notes for %s: %w", rec.ID, err)
	}
	rec.HasNotes = ok
	if ok {
		rec.Notes = &body
	}
	return nil
}
