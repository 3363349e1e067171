package model

// Dataset is the ordered result of one scan. It is never mutated after
// extraction; a new scan produces a new Dataset.
type Dataset struct {
	records []BenchmarkRecord
	index   map[string]int
}

// NewDataset builds a dataset over records. The slice is owned by the dataset
// afterwards. Later duplicates of an id are ignored by Lookup.
func NewDataset(records []BenchmarkRecord) Dataset {
	if records == nil {
		records = []BenchmarkRecord{}
	}
	index := make(map[string]int, len(records))
	for i, r := range records {
		if _, ok := index[r.ID]; !ok {
			index[r.ID] = i
		}
	}
	return Dataset{records: records, index: index}
}

// Records returns a copy of the records in dataset order.
func (d Dataset) Records() []BenchmarkRecord {
	out := make([]BenchmarkRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Total is the number of records.
func (d Dataset) Total() int { return len(d.records) }

// Lookup finds a record by id.
func (d Dataset) Lookup(id string) (BenchmarkRecord, bool) {
	i, ok := d.index[id]
	if !ok {
		return BenchmarkRecord{}, false
	}
	return d.records[i], true
}

// Snapshot converts the dataset into its wire form, without notes bodies.
func (d Dataset) Snapshot() Snapshot {
	evals := make([]BenchmarkRecord, len(d.records))
	for i, r := range d.records {
		evals[i] = r.Summary()
	}
	return Snapshot{Evals: evals, Total: len(evals)}
}

// Snapshot is the serialized, point-in-time form of a Dataset.
type Snapshot struct {
	Evals []BenchmarkRecord `json:"evals"`
	Total int               `json:"total"`
}

// Dataset rebuilds a Dataset from a decoded snapshot.
func (s Snapshot) Dataset() Dataset {
	return NewDataset(s.Evals)
}
