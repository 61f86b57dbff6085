package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nconklindev/vizprep/internal/types"
)

func TestSummarize(t *testing.T) {
	data := types.NewCategoryValueMap()
	data.Set("North", 10)
	data.Set("South", 2.5)
	data.Set("East", 7.5)

	sum := Summarize(data)
	assert.Equal(t, 3, sum.Count)
	assert.InDelta(t, 20, sum.Total, 1e-9)
	assert.InDelta(t, 2.5, sum.Min, 1e-9)
	assert.InDelta(t, 10, sum.Max, 1e-9)
	assert.InDelta(t, 20.0/3, sum.Mean, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, types.ValueSummary{}, Summarize(types.NewCategoryValueMap()))
	assert.Equal(t, types.ValueSummary{}, Summarize(nil))
}
