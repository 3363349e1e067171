// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/evalhub/internal/adapters/repository"
	"github.com/okian/evalhub/internal/adapters/scanner"
	"github.com/okian/evalhub/internal/domain/model"
	"github.com/okian/evalhub/internal/domain/query"
	"github.com/okian/evalhub/pkg/logger"
	"github.com/okian/evalhub/pkg/metrics"
)

// ErrNotStarted is returned by queries issued before Start.
var ErrNotStarted = errors.New("service not started")

// Service implements the API dependencies for the benchmark catalog.
type Service struct {
	mu sync.RWMutex

	// Configuration
	mode         string
	root         string
	snapshotPath string
	scanOpts     []scanner.Option

	// Core components
	store repository.Store

	// State
	started   bool
	startedAt time.Time
	lastScan  *scanner.Report

	listRequests   atomic.Int64
	detailRequests atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMode selects repository.ModeLive or repository.ModeSnapshot.
func WithMode(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.mode = mode
		}
	}
}

// WithEvalsRoot sets the benchmark root directory.
func WithEvalsRoot(root string) Option {
	return func(s *Service) {
		s.root = root
	}
}

// WithSnapshotPath sets the snapshot file served in snapshot mode.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithScannerOptions configures manifest reading.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(s *Service) {
		s.scanOpts = append(s.scanOpts, opts...)
	}
}

// WithStore injects a ready store; mode, root and snapshot path are then
// ignored by Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		mode: repository.ModeLive,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the store for the configured mode. In snapshot mode the
// snapshot file is loaded once here.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if s.store == nil {
		store, err := s.buildStore(ctx)
		if err != nil {
			return err
		}
		s.store = store
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "catalog service started",
		logger.String("mode", s.store.Mode()),
		logger.String("root", s.root),
		logger.String("snapshot", s.snapshotPath),
	)

	return nil
}

func (s *Service) buildStore(ctx context.Context) (repository.Store, error) {
	scanOpts := append([]scanner.Option{scanner.WithLogger(s.logger.Named("scanner"))}, s.scanOpts...)
	storeOpts := []repository.Option{
		repository.WithLogger(s.logger.Named("repository")),
		repository.WithExtractor(scanner.NewExtractor(scanOpts...)),
		repository.WithScanObserver(s.observeScan),
	}

	switch s.mode {
	case repository.ModeLive:
		if _, err := os.Stat(s.root); err != nil {
			s.logger.Warn(ctx, "evals root not readable; requests will fail until it exists",
				logger.String("root", s.root),
				logger.Error(err),
			)
		}
		return repository.NewLiveStore(s.root, storeOpts...), nil
	case repository.ModeSnapshot:
		store, err := repository.OpenSnapshotStore(s.snapshotPath, s.root, storeOpts...)
		if err != nil {
			metrics.RecordSnapshotLoad(metrics.ResultError)
			return nil, fmt.Errorf("load snapshot %s: %w", s.snapshotPath, err)
		}
		metrics.RecordSnapshotLoad(metrics.ResultOK)
		ds, _ := store.Dataset(ctx)
		metrics.UpdateRecordsTotal(ds.Total())
		return store, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", s.mode)
	}
}

// Stop marks the service stopped; later queries fail with ErrNotStarted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

func (s *Service) current() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// observeScan feeds every extraction report into metrics and stats.
func (s *Service) observeScan(report scanner.Report, err error) {
	if err != nil {
		metrics.RecordScan(metrics.ResultError, report.Duration)
		return
	}
	metrics.RecordScan(metrics.ResultOK, report.Duration)
	metrics.RecordSkipped(report.Skipped)
	metrics.RecordParseFailures(len(report.Failures))
	metrics.UpdateRecordsTotal(report.Scanned - report.Skipped - len(report.Failures))

	s.mu.Lock()
	s.lastScan = &report
	s.mu.Unlock()
}

// List returns the records matching p in dataset order. Total is the number
// of matches.
func (s *Service) List(ctx context.Context, p query.Params) (model.Snapshot, error) {
	s.listRequests.Add(1)
	store, err := s.current()
	if err != nil {
		return model.Snapshot{}, err
	}
	ds, err := store.Dataset(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if p.Normalize().IsZero() {
		return ds.Snapshot(), nil
	}
	return model.NewDataset(query.Filter(ds.Records(), p)).Snapshot(), nil
}

// Sections returns the matches of p partitioned by group.
func (s *Service) Sections(ctx context.Context, p query.Params) ([]query.Section, error) {
	snap, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return query.Sections(snap.Evals), nil
}

// Groups returns the sorted distinct groups of the full dataset.
func (s *Service) Groups(ctx context.Context) ([]string, error) {
	store, err := s.current()
	if err != nil {
		return nil, err
	}
	ds, err := store.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return query.Groups(ds.Records()), nil
}

// Detail returns the record for id with its notes and parsed usage.
func (s *Service) Detail(ctx context.Context, id string) (model.Detail, error) {
	s.detailRequests.Add(1)
	store, err := s.current()
	if err != nil {
		return model.Detail{}, err
	}
	rec, err := store.Detail(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		metrics.RecordDetailFetch(metrics.ResultNotFound)
		return model.Detail{}, err
	case err != nil:
		metrics.RecordDetailFetch(metrics.ResultError)
		return model.Detail{}, err
	}
	metrics.RecordDetailFetch(metrics.ResultOK)

	return model.NewDetail(rec), nil
}

// Mode reports the store mode, or the configured mode before Start.
func (s *Service) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store != nil {
		return s.store.Mode()
	}
	return s.mode
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goroutines := runtime.NumGoroutine()
	metrics.UpdateGoroutineCount(goroutines)

	stats := map[string]interface{}{
		"started":        s.started,
		"mode":           s.mode,
		"evalsRoot":      s.root,
		"snapshotPath":   s.snapshotPath,
		"listRequests":   s.listRequests.Load(),
		"detailRequests": s.detailRequests.Load(),
		"goroutines":     goroutines,
	}
	if s.store != nil {
		stats["mode"] = s.store.Mode()
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	if s.lastScan != nil {
		stats["lastScan"] = map[string]interface{}{
			"scanned":    s.lastScan.Scanned,
			"skipped":    s.lastScan.Skipped,
			"failures":   len(s.lastScan.Failures),
			"durationMs": s.lastScan.Duration.Milliseconds(),
		}
	}

	return stats
}
