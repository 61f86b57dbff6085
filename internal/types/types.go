package types

import "fmt"

// Row maps a column name to its raw cell text. An absent key or an empty
// string both mean the cell is missing.
type Row map[string]string

type Table struct {
	Columns []string
	Rows    []Row
}

// ResolvedColumns names the columns supplying categories and values.
type ResolvedColumns struct {
	Category       string
	Value          string
	CategoryByName bool
	ValueByName    bool

	// Set when a positional fallback skipped over the column already taken
	// by the other slot.
	CategoryShifted bool
	ValueShifted    bool
}

// Warnings describes every positional fallback taken during resolution.
func (r ResolvedColumns) Warnings() []string {
	var warnings []string
	if !r.CategoryByName {
		position := "first"
		if r.CategoryShifted {
			position = "second"
		}
		warnings = append(warnings, fmt.Sprintf("Could not find a typical category column name. Using %s column: '%s'", position, r.Category))
	}
	if !r.ValueByName {
		if r.ValueShifted {
			warnings = append(warnings, fmt.Sprintf("Category and default value columns are the same. Using third column: '%s'", r.Value))
		} else {
			warnings = append(warnings, fmt.Sprintf("Could not find a typical value column name. Using second column: '%s'", r.Value))
		}
	}
	return warnings
}

// CategoryValueMap is an insertion-ordered mapping from category to value.
// Setting an existing key replaces its value but keeps its position.
type CategoryValueMap struct {
	keys   []string
	values map[string]float64
}

func NewCategoryValueMap() *CategoryValueMap {
	return &CategoryValueMap{values: make(map[string]float64)}
}

func (m *CategoryValueMap) Set(category string, value float64) {
	if _, ok := m.values[category]; !ok {
		m.keys = append(m.keys, category)
	}
	m.values[category] = value
}

func (m *CategoryValueMap) Get(category string) (float64, bool) {
	v, ok := m.values[category]
	return v, ok
}

func (m *CategoryValueMap) Len() int {
	return len(m.keys)
}

// Keys returns the categories in insertion order.
func (m *CategoryValueMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *CategoryValueMap) Each(fn func(category string, value float64)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Values returns the stored values in insertion order.
func (m *CategoryValueMap) Values() []float64 {
	out := make([]float64, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.values[k])
	}
	return out
}

type ValueSummary struct {
	Count int
	Total float64
	Min   float64
	Max   float64
	Mean  float64
}

type ConversionResult struct {
	InputFile      string
	OutputFile     string
	Resolved       ResolvedColumns
	RowsRead       int
	RowsSkipped    int
	EntriesWritten int
	EntriesInvalid int
	Summary        ValueSummary
	Warnings       []string
}
