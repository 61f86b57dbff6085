package converter

import (
	"fmt"
	"strings"

	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/types"
)

// Candidate column names, highest priority first.
var (
	CategoryCandidates = []string{"category", "label", "name", "item"}
	ValueCandidates    = []string{"value", "amount", "count", "quantity", "number"}
)

// ResolveColumns picks the category and value columns of a table. Name
// matches win over position independently for each slot; an unmatched
// category falls back to the first column and an unmatched value to the
// second, or the third when the second is already the category column.
func ResolveColumns(table *types.Table) (types.ResolvedColumns, error) {
	var resolved types.ResolvedColumns

	columns := table.Columns
	if len(columns) < 2 {
		return resolved, errors.ColumnResolution(fmt.Sprintf(
			"Cannot determine distinct category and value columns: the file has %d column(s)", len(columns)))
	}

	normalized := make([]string, len(columns))
	for i, col := range columns {
		normalized[i] = strings.ToLower(strings.TrimSpace(col))
	}

	catIdx := matchCandidate(normalized, CategoryCandidates)
	valIdx := matchCandidate(normalized, ValueCandidates)
	resolved.CategoryByName = catIdx >= 0
	resolved.ValueByName = valIdx >= 0

	if catIdx < 0 {
		catIdx = 0
		if catIdx == valIdx {
			catIdx = 1
			resolved.CategoryShifted = true
		}
	}

	if valIdx < 0 {
		valIdx = 1
		if valIdx == catIdx {
			if len(columns) < 3 {
				return resolved, errors.ColumnResolution("Cannot determine distinct category and value columns.")
			}
			valIdx = 2
			resolved.ValueShifted = true
		}
	}

	resolved.Category = columns[catIdx]
	resolved.Value = columns[valIdx]

	return resolved, nil
}

// matchCandidate returns the index of the first column equal to the highest
// priority candidate present, or -1.
func matchCandidate(normalized, candidates []string) int {
	for _, candidate := range candidates {
		for i, name := range normalized {
			if name == candidate {
				return i
			}
		}
	}
	return -1
}
