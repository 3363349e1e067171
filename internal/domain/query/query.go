// Package query implements the filtering, search and grouping applied to a dataset.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/evalhub/internal/domain/model"
)

// AllGroups is the group sentinel that disables group filtering.
const AllGroups = "All"

// Params selects a subset of a dataset. Zero value matches everything.
type Params struct {
	// Group is matched exactly and case-sensitively. Empty or AllGroups disables it.
	Group string
	// Text is a case-insensitive substring. Blank text disables it.
	Text string
}

// Normalize trims the free-text query.
func (p Params) Normalize() Params {
	p.Text = strings.TrimSpace(p.Text)
	return p
}

// IsZero reports whether the params filter nothing.
func (p Params) IsZero() bool {
	p = p.Normalize()
	return (p.Group == "" || p.Group == AllGroups) && p.Text == ""
}

// Filter returns the records matching both the group and the text filter, in
// input order. Filtering a result again with the same params yields the same result.
func Filter(records []model.BenchmarkRecord, p Params) []model.BenchmarkRecord {
	p = p.Normalize()
	out := make([]model.BenchmarkRecord, 0, len(records))

	var needle string
	if p.Text != "" {
		needle = fold(p.Text)
	}
	for _, r := range records {
		if p.Group != "" && p.Group != AllGroups && r.Group != p.Group {
			continue
		}
		if needle != "" && !matchesText(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesText checks id, title, description, contributors, tags and task names.
func matchesText(r model.BenchmarkRecord, needle string) bool {
	if contains(r.ID, needle) || contains(r.Title, needle) || contains(r.Description, needle) {
		return true
	}
	for _, c := range r.Contributors {
		if contains(c, needle) {
			return true
		}
	}
	for _, t := range r.Tags {
		if contains(t, needle) {
			return true
		}
	}
	for _, t := range r.Tasks {
		if contains(t.Name, needle) {
			return true
		}
	}
	return false
}

func contains(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// Section is one display group of a filtered result.
type Section struct {
	Group   string                  `json:"group"`
	Records []model.BenchmarkRecord `json:"evals"`
}

// Sections partitions records by group. Group keys are sorted; records keep
// their relative order within a group.
func Sections(records []model.BenchmarkRecord) []Section {
	byGroup := make(map[string][]model.BenchmarkRecord)
	for _, r := range records {
		byGroup[r.Group] = append(byGroup[r.Group], r)
	}
	keys := make([]string, 0, len(byGroup))
	for k := range byGroup {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, Section{Group: k, Records: byGroup[k]})
	}
	return out
}

// Groups returns the sorted distinct groups of records. Callers pass the full
// dataset, not a filtered view, so the filter UI always lists every group.
func Groups(records []model.BenchmarkRecord) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Group]; ok {
			continue
		}
		seen[r.Group] = struct{}{}
		out = append(out, r.Group)
	}
	slices.Sort(out)
	return out
}
