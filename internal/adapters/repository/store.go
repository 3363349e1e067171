// Package repository serves benchmark datasets from disk or from a snapshot.
package repository

import (
	"context"

	"github.com/okian/evalhub/internal/domain/model"
)

// Store provides read access to the benchmark dataset.
type Store interface {
	// Dataset returns the current dataset. Listing records never carry notes.
	Dataset(ctx context.Context) (model.Dataset, error)

	// Detail returns the record for id with its notes read fresh from disk.
	// Returns ErrNotFound if no record has that id.
	Detail(ctx context.Context, id string) (model.BenchmarkRecord, error)

	// Mode names the store for logs and stats.
	Mode() string
}

// Store modes.
const (
	ModeLive     = "live"
	ModeSnapshot = "snapshot"
)
