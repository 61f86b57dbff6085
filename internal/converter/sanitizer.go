package converter

import (
	"math"
	"strconv"
	"strings"

	"github.com/nconklindev/vizprep/internal/types"
)

// MissingMarkers are cell texts that stand for "no data" in spreadsheet and
// database exports. A category equal to one of them is treated as blank.
var MissingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a trimmed cell is blank or a missing-data marker.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := MissingMarkers[s]
	return ok
}

// ParseNumeric parses a cell as a finite 64-bit float. Blank text, NaN,
// infinities, out-of-range values and hex literals are rejected.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}

	return val, true
}

// SanitizeRows builds the category/value map from the resolved columns.
// Rows with a blank or missing-marker category, a missing value or a non-numeric value are
// skipped and counted. Values are stored as absolute values; a repeated
// category keeps the last value seen.
func SanitizeRows(table *types.Table, resolved types.ResolvedColumns) (*types.CategoryValueMap, int) {
	data := types.NewCategoryValueMap()
	skipped := 0

	for _, row := range table.Rows {
		category := strings.TrimSpace(row[resolved.Category])
		if IsMissing(category) {
			skipped++
			continue
		}

		raw, ok := row[resolved.Value]
		if !ok || raw == "" {
			skipped++
			continue
		}

		value, ok := ParseNumeric(raw)
		if !ok {
			skipped++
			continue
		}

		data.Set(category, math.Abs(value))
	}

	return data, skipped
}
