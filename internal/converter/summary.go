package converter

import (
	"github.com/montanaflynn/stats"

	"github.com/nconklindev/vizprep/internal/types"
)

// Summarize computes count, total, min, max and mean of the stored values.
func Summarize(data *types.CategoryValueMap) types.ValueSummary {
	if data == nil || data.Len() == 0 {
		return types.ValueSummary{}
	}

	values := stats.Float64Data(data.Values())

	// stats only errors on empty input, ruled out above.
	total, _ := values.Sum()
	lo, _ := values.Min()
	hi, _ := values.Max()
	mean, _ := values.Mean()

	return types.ValueSummary{
		Count: values.Len(),
		Total: total,
		Min:   lo,
		Max:   hi,
		Mean:  mean,
	}
}
