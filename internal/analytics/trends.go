package analytics

import (
	"math"
	"strings"

	"sakkanal_backend/platform/format"
)

// Range selects how many monthly buckets a trends report keeps.
type Range string

const (
	Range3Months Range = "3m"
	Range6Months Range = "6m"
	Range1Year   Range = "1y"
)

// ParseRange accepts 3m, 6m or 1y and falls back to 6m.
func ParseRange(raw string) Range {
	switch Range(strings.ToLower(strings.TrimSpace(raw))) {
	case Range3Months:
		return Range3Months
	case Range1Year:
		return Range1Year
	default:
		return Range6Months
	}
}

// Months is the number of buckets the range keeps.
func (r Range) Months() int {
	switch r {
	case Range3Months:
		return 3
	case Range1Year:
		return 12
	default:
		return 6
	}
}

// MonthlyTrend counts the leads created in one calendar month. Contacted,
// qualified and converted reflect the leads' current status.
type MonthlyTrend struct {
	Period         string  `json:"period"` // YYYY-MM
	NewLeads       int     `json:"newLeads"`
	Contacted      int     `json:"contacted"`
	Qualified      int     `json:"qualified"`
	Converted      int     `json:"converted"`
	Growth         float64 `json:"growth"`
	ConversionRate float64 `json:"conversionRate"`
}

// Confidence describes the direction of a prediction.
type Confidence string

const (
	ConfidencePositive Confidence = "positive"
	ConfidenceNegative Confidence = "negative"
	ConfidenceStable   Confidence = "stable"
)

// Prediction is the expected number of new leads next month.
type Prediction struct {
	Value      int        `json:"value"`
	Growth     float64    `json:"growth"`
	Confidence Confidence `json:"confidence"`
}

// LimitRange keeps the most recent buckets for the range. Input must be chronological.
func LimitRange(trends []MonthlyTrend, r Range) []MonthlyTrend {
	n := r.Months()
	if len(trends) <= n {
		return trends
	}
	return trends[len(trends)-n:]
}

// Growth is the percentage change from prev to cur, 0 when prev is 0.
func Growth(cur, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return float64(cur-prev) / float64(prev) * 100
}

// Annotate fills the month-over-month growth and the conversion rate of each bucket.
func Annotate(trends []MonthlyTrend) []MonthlyTrend {
	out := make([]MonthlyTrend, len(trends))
	for i, t := range trends {
		if i > 0 {
			t.Growth = format.Round(Growth(t.NewLeads, trends[i-1].NewLeads), 1)
		}
		if t.NewLeads > 0 {
			t.ConversionRate = format.Round(float64(t.Converted)/float64(t.NewLeads)*100, 1)
		}
		out[i] = t
	}
	return out
}

// Predict extrapolates next month's new leads from the average growth of
// the last three buckets. It returns nil with fewer than three months.
func Predict(trends []MonthlyTrend) *Prediction {
	if len(trends) < 3 {
		return nil
	}

	recent := trends[len(trends)-3:]
	avg := (Growth(recent[1].NewLeads, recent[0].NewLeads) + Growth(recent[2].NewLeads, recent[1].NewLeads)) / 2
	last := recent[2].NewLeads

	confidence := ConfidenceStable
	switch {
	case avg > 0:
		confidence = ConfidencePositive
	case avg < 0:
		confidence = ConfidenceNegative
	}

	return &Prediction{
		Value:      int(math.Round(float64(last) * (1 + avg/100))),
		Growth:     format.Round(avg, 1),
		Confidence: confidence,
	}
}

// Summary aggregates a trends window.
type Summary struct {
	TotalNewLeads         int     `json:"totalNewLeads"`
	TotalConverted        int     `json:"totalConverted"`
	AverageConversionRate float64 `json:"averageConversionRate"`
}

// Summarize averages the per-month conversion rate over the window.
func Summarize(trends []MonthlyTrend) Summary {
	var s Summary
	if len(trends) == 0 {
		return s
	}
	var rateSum float64
	for _, t := range trends {
		s.TotalNewLeads += t.NewLeads
		s.TotalConverted += t.Converted
		if t.NewLeads > 0 {
			rateSum += float64(t.Converted) / float64(t.NewLeads)
		}
	}
	s.AverageConversionRate = format.Round(rateSum/float64(len(trends))*100, 1)
	return s
}
