package repository

import (
	"github.com/okian/evalhub/internal/adapters/scanner"
	"github.com/okian/evalhub/pkg/logger"
)

// Option applies a configuration option to a store.
type Option func(*storeOptions)

type storeOptions struct {
	extractor *scanner.Extractor
	logger    logger.Logger
	observer  ScanObserver
}

// ScanObserver receives the report of every scan a store performs.
type ScanObserver func(report scanner.Report, err error)

// WithExtractor sets the extractor used for scans and notes reads.
func WithExtractor(e *scanner.Extractor) Option {
	return func(o *storeOptions) {
		if e != nil {
			o.extractor = e
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithScanObserver registers a callback invoked after each scan.
func WithScanObserver(fn ScanObserver) Option {
	return func(o *storeOptions) {
		o.observer = fn
	}
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.extractor == nil {
		o.extractor = scanner.NewExtractor(scanner.WithLogger(o.logger))
	}
	return o
}
