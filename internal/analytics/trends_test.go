package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func months(newLeads ...int) []MonthlyTrend {
	out := make([]MonthlyTrend, len(newLeads))
	for i, n := range newLeads {
		out[i] = MonthlyTrend{Period: fmt.Sprintf("2025-%02d", i+1), NewLeads: n}
	}
	return out
}

func TestParseRange(t *testing.T) {
	assert.Equal(t, Range3Months, ParseRange("3m"))
	assert.Equal(t, Range1Year, ParseRange(" 1Y "))
	assert.Equal(t, Range6Months, ParseRange(""))
	assert.Equal(t, Range6Months, ParseRange("2w"))
}

func TestLimitRangeKeepsMostRecent(t *testing.T) {
	trends := months(1, 2, 3, 4, 5, 6, 7, 8)

	got := LimitRange(trends, Range3Months)
	require.Len(t, got, 3)
	assert.Equal(t, 6, got[0].NewLeads)
	assert.Equal(t, 8, got[2].NewLeads)

	assert.Len(t, LimitRange(trends, Range6Months), 6)
	assert.Len(t, LimitRange(trends, Range1Year), 8)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 50.0, Growth(15, 10))
	assert.Equal(t, -50.0, Growth(5, 10))
	assert.Equal(t, 0.0, Growth(12, 0))
}

func TestPredict(t *testing.T) {
	assert.Nil(t, Predict(months(10, 20)))

	// growth 100% then 50%, average 75%: 30 * 1.75 = 52.5 -> 53
	p := Predict(months(5, 10, 20, 30))
	require.NotNil(t, p)
	assert.Equal(t, 53, p.Value)
	assert.Equal(t, 75.0, p.Growth)
	assert.Equal(t, ConfidencePositive, p.Confidence)

	down := Predict(months(20, 10, 5))
	require.NotNil(t, down)
	assert.Equal(t, 3, down.Value)
	assert.Equal(t, ConfidenceNegative, down.Confidence)

	flat := Predict(months(0, 0, 4))
	require.NotNil(t, flat)
	assert.Equal(t, 4, flat.Value)
	assert.Equal(t, ConfidenceStable, flat.Confidence)
}

func TestAnnotateAndSummarize(t *testing.T) {
	trends := []MonthlyTrend{
		{Period: "2025-01", NewLeads: 10, Converted: 2},
		{Period: "2025-02", NewLeads: 15, Converted: 3},
		{Period: "2025-03", NewLeads: 0},
	}

	annotated := Annotate(trends)
	assert.Equal(t, 0.0, annotated[0].Growth)
	assert.Equal(t, 50.0, annotated[1].Growth)
	assert.Equal(t, -100.0, annotated[2].Growth)
	assert.Equal(t, 20.0, annotated[0].ConversionRate)
	assert.Equal(t, 0.0, annotated[2].ConversionRate)

	s := Summarize(annotated)
	assert.Equal(t, 25, s.TotalNewLeads)
	assert.Equal(t, 5, s.TotalConverted)
	// (0.2 + 0.2 + 0) / 3
	assert.Equal(t, 13.3, s.AverageConversionRate)
}
