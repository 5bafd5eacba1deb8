// Package tensor implements the Tensor Input Model (spec §4.A): parsing a
// JSON object of feature-name -> array into a columnar, typed batch, and
// exposing filtered views by type the way framework adapters need them.
//
// Grounded on original_source/jams-core/src/model/input.rs: the same
// first-element type sniffing (int-like -> Ints, float-like -> Floats,
// string -> Strings), the same rejection of empty and mixed-type arrays.
package tensor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"jamsd/internal/jamserr"
)

// Kind is the tag of a column's Values union.
type Kind int

const (
	KindFloats Kind = iota
	KindInts
	KindStrings
)

// Values is a tagged union of one column's data, matching spec §3's
// { Floats(list<f64>) | Ints(list<i64>) | Strings(list<string>) }.
type Values struct {
	Kind    Kind
	Floats  []float64
	Ints    []int64
	Strings []string
}

// Len reports the number of rows in this column.
func (v Values) Len() int {
	switch v.Kind {
	case KindFloats:
		return len(v.Floats)
	case KindInts:
		return len(v.Ints)
	default:
		return len(v.Strings)
	}
}

// ModelInput is the columnar record described in spec §3.
type ModelInput struct {
	names   []string
	columns map[string]Values
}

// FeatureNames returns all column names in the order they were parsed.
func (m ModelInput) FeatureNames() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Get returns the named column and whether it exists.
func (m ModelInput) Get(name string) (Values, bool) {
	v, ok := m.columns[name]
	return v, ok
}

// Floats returns names+values of every float column, in lexicographic
// feature-name order (spec §4.C's Torch column-packing rule).
func (m ModelInput) Floats() (names []string, values [][]float64) {
	for _, n := range m.sortedNames() {
		if v := m.columns[n]; v.Kind == KindFloats {
			names = append(names, n)
			values = append(values, v.Floats)
		}
	}
	return
}

// Ints returns names+values of every integer column, lexicographically.
func (m ModelInput) Ints() (names []string, values [][]int64) {
	for _, n := range m.sortedNames() {
		if v := m.columns[n]; v.Kind == KindInts {
			names = append(names, n)
			values = append(values, v.Ints)
		}
	}
	return
}

// Strings returns names+values of every string column, lexicographically.
func (m ModelInput) Strings() (names []string, values [][]string) {
	for _, n := range m.sortedNames() {
		if v := m.columns[n]; v.Kind == KindStrings {
			names = append(names, n)
			values = append(values, v.Strings)
		}
	}
	return
}

func (m ModelInput) sortedNames() []string {
	out := append([]string(nil), m.names...)
	sort.Strings(out)
	return out
}

// BatchSize returns the shared row count across all columns, failing if
// columns disagree in length (spec §3 invariant).
func (m ModelInput) BatchSize() (int, error) {
	if len(m.names) == 0 {
		return 0, jamserr.BadInput("empty input", nil)
	}
	size := -1
	for _, n := range m.names {
		l := m.columns[n].Len()
		if size == -1 {
			size = l
			continue
		}
		if l != size {
			return 0, jamserr.BadInput(
				fmt.Sprintf("column %q has length %d, expected %d", n, l, size), nil)
		}
	}
	return size, nil
}

// sniffKind inspects a single raw JSON element and reports the Kind its
// column should take, following the same literal-based sniffing as
// original_source's parse_json_serde_value: a quoted value is a string, a
// number written with '.'/'e'/'E' is a float, anything else numeric is an
// int.
func sniffKind(raw json.RawMessage) (Kind, error) {
	var asStr string
	if err := json.Unmarshal(raw, &asStr); err == nil {
		return KindStrings, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("unsupported element type %q", string(raw))
	}
	if strings.ContainsAny(string(n), ".eE") {
		return KindFloats, nil
	}
	return KindInts, nil
}

// ParseModelInput parses a JSON string containing an object of
// feature-name -> homogeneous array into a ModelInput.
func ParseModelInput(jsonStr string) (ModelInput, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	dec.UseNumber()
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return ModelInput{}, jamserr.BadInput("failed to parse input JSON", err)
	}

	m := ModelInput{columns: make(map[string]Values, len(raw))}
	// Deterministic column order regardless of map iteration.
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, name := range names {
		var probe []json.RawMessage
		if err := json.Unmarshal(raw[name], &probe); err != nil {
			return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q is not an array", name), err)
		}
		if len(probe) == 0 {
			return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q has an empty array", name), nil)
		}

		// Infer the column kind from the first element's literal form,
		// matching spec §4.A exactly: int-like -> Ints, floating -> Floats,
		// string -> Strings.
		kind, err := sniffKind(probe[0])
		if err != nil {
			return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q: %v", name, err), nil)
		}

		switch kind {
		case KindStrings:
			strs := make([]string, len(probe))
			for i, elem := range probe {
				if err := json.Unmarshal(elem, &strs[i]); err != nil {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), err)
				}
			}
			m.names = append(m.names, name)
			m.columns[name] = Values{Kind: KindStrings, Strings: strs}
		case KindInts:
			ints := make([]int64, len(probe))
			for i, elem := range probe {
				if bytes.HasPrefix(bytes.TrimSpace(elem), []byte(`"`)) {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), nil)
				}
				var n json.Number
				if err := json.Unmarshal(elem, &n); err != nil {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), err)
				}
				iv, err := n.Int64()
				if err != nil {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), err)
				}
				ints[i] = iv
			}
			m.names = append(m.names, name)
			m.columns[name] = Values{Kind: KindInts, Ints: ints}
		case KindFloats:
			floats := make([]float64, len(probe))
			for i, elem := range probe {
				if bytes.HasPrefix(bytes.TrimSpace(elem), []byte(`"`)) {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), nil)
				}
				var n json.Number
				if err := json.Unmarshal(elem, &n); err != nil {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), err)
				}
				f, err := n.Float64()
				if err != nil {
					return ModelInput{}, jamserr.BadInput(fmt.Sprintf("feature %q mixes types", name), err)
				}
				floats[i] = f
			}
			m.names = append(m.names, name)
			m.columns[name] = Values{Kind: KindFloats, Floats: floats}
		}
	}

	if _, err := m.BatchSize(); err != nil {
		return ModelInput{}, err
	}
	return m, nil
}

// MarshalJSON round-trips a ModelInput back to its {feature -> array} shape
// (spec §8 property 4: feature names and array lengths must round-trip).
func (m ModelInput) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.names))
	for _, n := range m.names {
		v := m.columns[n]
		switch v.Kind {
		case KindFloats:
			// Keep a decimal point on whole floats so a re-parse sniffs Floats.
			nums := make([]json.Number, len(v.Floats))
			for i, f := range v.Floats {
				s := strconv.FormatFloat(f, 'g', -1, 64)
				if !strings.ContainsAny(s, ".eE") {
					s += ".0"
				}
				nums[i] = json.Number(s)
			}
			out[n] = nums
		case KindInts:
			out[n] = v.Ints
		case KindStrings:
			out[n] = v.Strings
		}
	}
	return json.Marshal(out)
}
