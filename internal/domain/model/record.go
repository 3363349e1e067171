// Package model contains domain models passed between layers.
package model

import "time"

// DefaultGroup is assigned to records whose manifest names no group.
const DefaultGroup = "Uncategorized"

// BenchmarkRecord is the normalized metadata of one benchmark directory.
type BenchmarkRecord struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Group        string       `json:"group"`
	Arxiv        *string      `json:"arxiv"`
	Contributors []string     `json:"contributors"`
	Tags         []string     `json:"tags"`
	Tasks        []TaskRecord `json:"tasks"`
	Dependency   any          `json:"dependency"`
	HasNotes     bool         `json:"hasNotes"`
	Notes        *string      `json:"notes,omitempty"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// TaskRecord describes one task declared by a benchmark manifest.
type TaskRecord struct {
	Name           string         `json:"name"`
	DatasetSamples int            `json:"datasetSamples"`
	HumanBaseline  map[string]any `json:"humanBaseline"`
}

// TotalSamples sums the dataset samples of all tasks.
func (r BenchmarkRecord) TotalSamples() int {
	total := 0
	for _, t := range r.Tasks {
		total += t.DatasetSamples
	}
	return total
}

// RequiresSandbox reports whether the manifest declares a dependency.
func (r BenchmarkRecord) RequiresSandbox() bool {
	return r.Dependency != nil
}

// Summary returns a copy of the record without the notes body.
func (r BenchmarkRecord) Summary() BenchmarkRecord {
	r.Notes = nil
	return r
}

// HumanBaselineScore returns the baseline score when the task carries a numeric one.
func (t TaskRecord) HumanBaselineScore() (float64, bool) {
	if t.HumanBaseline == nil {
		return 0, false
	}
	switch v := t.HumanBaseline["score"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
