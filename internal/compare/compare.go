package compare

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"sort"
)

// Runtime-specific keys dropped before comparison
var volatileKeys = map[string]bool{
	"timestamp":               true,
	"analysis_id":             true,
	"processing_time_seconds": true,
	"processing_time":         true,
	"initialized_at":          true, // execution_plan
}

// Difference is one top-level section that differs
type Difference struct {
	Section  string      `json:"section"`
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
}

// MetadataCheck compares one metadata flag
type MetadataCheck struct {
	Key      string      `json:"key"`
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
	Match    bool        `json:"match"`
}

// Result is the outcome of comparing two analysis outputs
type Result struct {
	Sections    []string        `json:"sections"`
	Missing     []string        `json:"missing"`
	Extra       []string        `json:"extra"`
	Differences []Difference    `json:"differences"`
	Metadata    []MetadataCheck `json:"metadata"`
}

// StructureMatches reports whether both outputs carry the same sections
func (r *Result) StructureMatches() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

// Equal reports whether the normalized outputs are identical
func (r *Result) Equal() bool {
	return r.StructureMatches() && len(r.Differences) == 0
}

// Normalize drops runtime-specific fields at every depth
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if volatileKeys[k] {
				continue
			}
			out[k] = Normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	default:
		return v
	}
}

// Compare compares decoded actual and expected outputs
func Compare(actual, expected map[string]interface{}) *Result {
	a, _ := Normalize(actual).(map[string]interface{})
	e, _ := Normalize(expected).(map[string]interface{})

	res := &Result{
		Sections:    sortedKeys(a),
		Missing:     []string{},
		Extra:       []string{},
		Differences: []Difference{},
		Metadata:    []MetadataCheck{},
	}

	for _, k := range sortedKeys(e) {
		av, ok := a[k]
		if !ok {
			res.Missing = append(res.Missing, k)
			continue
		}
		if !reflect.DeepEqual(av, e[k]) {
			res.Differences = append(res.Differences, Difference{Section: k, Expected: e[k], Actual: av})
		}
	}
	for _, k := range sortedKeys(a) {
		if _, ok := e[k]; !ok {
			res.Extra = append(res.Extra, k)
		}
	}

	am, _ := actual["metadata"].(map[string]interface{})
	em, _ := expected["metadata"].(map[string]interface{})
	for _, key := range []string{"agents_coordination_success", "stages_succeeded", "data_quality_score"} {
		av, aok := am[key]
		ev, eok := em[key]
		if !aok || !eok {
			continue
		}
		res.Metadata = append(res.Metadata, MetadataCheck{
			Key:      key,
			Expected: ev,
			Actual:   av,
			Match:    reflect.DeepEqual(av, ev),
		})
	}

	return res
}

// CompareFiles loads two JSON files and compares them
func CompareFiles(actualPath, expectedPath string) (*Result, error) {
	actual, err := loadJSON(actualPath)
	if err != nil {
		return nil, err
	}
	expected, err := loadJSON(expectedPath)
	if err != nil {
		return nil, err
	}
	return Compare(actual, expected), nil
}

func loadJSON(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return out, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
