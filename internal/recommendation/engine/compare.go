package engine

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// ComparisonMetrics are the financial figures of one scenario for a prospect.
type ComparisonMetrics struct {
	InitialInvestment  float64 `json:"initialInvestment"`
	MonthlySavings     float64 `json:"monthlySavings"`
	AnnualSavings      float64 `json:"annualSavings"`
	ROIMonths          int     `json:"roiMonths"`
	TotalSavings5Years float64 `json:"totalSavings5Years"`
	EnergyEfficiency   int     `json:"energyEfficiency"`
}

// Comparison is one column of the comparison table.
type Comparison struct {
	Scenario Scenario          `json:"scenario"`
	Metrics  ComparisonMetrics `json:"metrics"`
	Score    int               `json:"score"`
}

// BestPicks names the winning scenario for each headline metric.
type BestPicks struct {
	Compatibility *uuid.UUID `json:"compatibility"`
	ROI           *uuid.UUID `json:"roi"`
	TotalSavings  *uuid.UUID `json:"totalSavings5Years"`
}

// ComparisonResult is the output of Compare.
type ComparisonResult struct {
	Items []Comparison `json:"items"`
	Best  BestPicks    `json:"best"`
}

// Compare computes metrics and a compatibility score per scenario, ordered by score.
func Compare(q Questionnaire, scenarios []Scenario) ComparisonResult {
	items := make([]Comparison, 0, len(scenarios))
	for _, sc := range scenarios {
		items = append(items, Comparison{
			Scenario: sc,
			Metrics:  Metrics(q, sc),
			Score:    CompatibilityScore(q, sc),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	return ComparisonResult{Items: items, Best: bestPicks(items)}
}

// Metrics computes the comparison figures for one scenario.
func Metrics(q Questionnaire, sc Scenario) ComparisonMetrics {
	investment := sc.MinBudget + sc.MinBudget*0.5
	if sc.MaxBudget != nil && *sc.MaxBudget > 0 {
		investment = sc.MinBudget + (*sc.MaxBudget-sc.MinBudget)/2
	}
	monthly := q.ElectricityBill * sc.EstimatedSavings / 100
	annual := monthly * 12

	roi := 0
	if monthly > 0 {
		roi = int(math.Round(investment / monthly))
	}

	efficiency := 70
	switch sc.Category {
	case CategoryPremium:
		efficiency = 95
	case CategoryStandard:
		efficiency = 85
	}

	return ComparisonMetrics{
		InitialInvestment:  investment,
		MonthlySavings:     monthly,
		AnnualSavings:      annual,
		ROIMonths:          roi,
		TotalSavings5Years: annual*5 - investment,
		EnergyEfficiency:   efficiency,
	}
}

// CompatibilityScore is the comparison-page variant of the matching heuristic.
func CompatibilityScore(q Questionnaire, sc Scenario) int {
	score := 0
	if sc.FitsSite(q.SiteType) {
		score += 30
	}

	if q.Budget > 0 {
		if sc.FitsBudget(q.Budget) {
			score += 25
		}
	} else {
		score += 10
	}

	switch {
	case q.ElectricityBill > 500000 && sc.Category == CategoryPremium:
		score += 25
	case q.ElectricityBill > 200000 && sc.Category == CategoryStandard:
		score += 20
	case sc.Category == CategoryEconomique:
		score += 15
	}

	switch {
	case q.MeasurementPoints > 15 && sc.Category == CategoryPremium:
		score += 10
	case q.MeasurementPoints > 5 && sc.Category == CategoryStandard:
		score += 10
	}

	if q.HasNeed(NeedPreventiveMaintenance) && sc.Category == CategoryPremium {
		score += 10
	}
	return score
}

// bestPicks ignores a zero payback period, which means no savings at all.
func bestPicks(items []Comparison) BestPicks {
	var best BestPicks
	var bestScore, bestROI int
	var bestTotal float64
	for i := range items {
		item := &items[i]
		id := item.Scenario.ID
		if best.Compatibility == nil || item.Score > bestScore {
			bestScore = item.Score
			best.Compatibility = &id
		}
		if item.Metrics.ROIMonths > 0 && (best.ROI == nil || item.Metrics.ROIMonths < bestROI) {
			bestROI = item.Metrics.ROIMonths
			best.ROI = &id
		}
		if best.TotalSavings == nil || item.Metrics.TotalSavings5Years > bestTotal {
			bestTotal = item.Metrics.TotalSavings5Years
			best.TotalSavings = &id
		}
	}
	return best
}
