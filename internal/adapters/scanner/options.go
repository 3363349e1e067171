// Package scanner turns a directory of benchmark manifests into a dataset.
package scanner

import "github.com/okian/evalhub/pkg/logger"

// Default layout of a benchmark directory.
const (
	DefaultManifestName   = "eval.yaml"
	DefaultNotesName      = "README.md"
	DefaultReservedPrefix = "_"
)

// DefaultReservedDirs are utility directories that never hold a benchmark.
var DefaultReservedDirs = []string{"utils"}

// Option applies a configuration option to the Reader.
type Option func(*Reader)

// WithManifestName sets the manifest filename looked up in each directory.
func WithManifestName(name string) Option {
	return func(r *Reader) {
		if name != "" {
			r.manifestName = name
		}
	}
}

// WithNotesName sets the notes document filename.
func WithNotesName(name string) Option {
	return func(r *Reader) {
		if name != "" {
			r.notesName = name
		}
	}
}

// WithReservedPrefix sets the name prefix that marks internal directories.
// An empty prefix disables prefix exclusion.
func WithReservedPrefix(prefix string) Option {
	return func(r *Reader) {
		r.reservedPrefix = prefix
	}
}

// WithReservedDirs replaces the set of excluded utility directory names.
func WithReservedDirs(names []string) Option {
	return func(r *Reader) {
		r.reservedDirs = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.reservedDirs[n] = struct{}{}
		}
	}
}

// WithConcurrency bounds how many directories Extract reads at once.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger used for parse failures.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}
