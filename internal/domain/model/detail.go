package model

import "github.com/okian/evalhub/internal/domain/notes"

// Detail is a record with its notes body and the usage parsed from it.
// It encodes as one flat JSON object.
type Detail struct {
	BenchmarkRecord
	notes.Usage
}

// NewDetail parses the notes of rec, if any.
func NewDetail(rec BenchmarkRecord) Detail {
	d := Detail{BenchmarkRecord: rec}
	if rec.Notes != nil {
		d.Usage = notes.Parse(*rec.Notes)
	}
	return d
}
