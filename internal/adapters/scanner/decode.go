package scanner

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/evalhub/internal/domain/model"
)

var (
	errEmptyManifest = errors.New("manifest is empty")
	errNotMapping    = errors.New("manifest top level is not a mapping")
)

// Recognized manifest keys.
const (
	keyTitle          = "title"
	keyDescription    = "description"
	keyGroup          = "group"
	keyArxiv          = "arxiv"
	keyContributors   = "contributors"
	keyTags           = "tags"
	keyTasks          = "tasks"
	keyDependency     = "dependency"
	keyTaskName       = "name"
	keyDatasetSamples = "dataset_samples"
	keyHumanBaseline  = "human_baseline"
)

// decodeManifest parses manifest YAML into a record for directory id.
// Only syntax errors and a non-mapping document fail; every field falls back
// to its default when absent or of the wrong shape.
func decodeManifest(id string, data []byte) (model.BenchmarkRecord, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return model.BenchmarkRecord{}, err
	}
	if raw == nil {
		return model.BenchmarkRecord{}, errEmptyManifest
	}
	doc, ok := asMap(raw)
	if !ok {
		return model.BenchmarkRecord{}, errNotMapping
	}

	rec := model.BenchmarkRecord{
		ID:           id,
		Title:        scalarString(doc[keyTitle]),
		Description:  strings.TrimSpace(scalarString(doc[keyDescription])),
		Group:        scalarString(doc[keyGroup]),
		Contributors: stringList(doc[keyContributors]),
		Tags:         stringList(doc[keyTags]),
		Tasks:        taskList(doc[keyTasks]),
		Dependency:   truthy(doc[keyDependency]),
	}
	if rec.Title == "" {
		rec.Title = id
	}
	if rec.Group == "" {
		rec.Group = model.DefaultGroup
	}
	if arxiv := scalarString(doc[keyArxiv]); arxiv != "" {
		rec.Arxiv = &arxiv
	}
	return rec, nil
}

func taskList(v any) []model.TaskRecord {
	items, ok := v.([]any)
	if !ok {
		return []model.TaskRecord{}
	}
	out := make([]model.TaskRecord, 0, len(items))
	for _, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		task := model.TaskRecord{
			Name:           scalarString(m[keyTaskName]),
			DatasetSamples: sampleCount(m[keyDatasetSamples]),
		}
		if hb, ok := asMap(m[keyHumanBaseline]); ok && len(hb) > 0 {
			task.HumanBaseline = hb
		}
		out = append(out, task)
	}
	return out
}

// stringList keeps scalar entries in order and drops nested values.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// scalarString renders YAML scalars as strings; collections and null become "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// sampleCount accepts integers, floats and numeric strings; anything else or a
// negative value counts as zero.
func sampleCount(v any) int {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int64:
		n = t
	case uint64:
		if t > math.MaxInt32 {
			n = math.MaxInt32
		} else {
			n = int64(t)
		}
	case float64:
		if !finite(t) {
			return 0
		}
		n = int64(t)
	case string:
		parsed, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(t), "_", ""), 10, 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// truthy passes a value through unless it is null, false, zero or empty.
func truthy(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if !t {
			return nil
		}
	case string:
		if t == "" {
			return nil
		}
	case int:
		if t == 0 {
			return nil
		}
	case float64:
		if t == 0 || !finite(t) {
			return nil
		}
	}
	return normalize(v)
}

// asMap returns a string-keyed, JSON-safe copy of a YAML mapping.
func asMap(v any) (map[string]any, bool) {
	switch v.(type) {
	case map[string]any, map[any]any:
		m, ok := normalize(v).(map[string]any)
		return m, ok
	default:
		return nil, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// normalize converts YAML values into shapes encoding/json accepts.
// Non-finite floats (.nan, .inf) become null.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case float64:
		if !finite(t) {
			return nil
		}
		return t
	default:
		return v
	}
}
