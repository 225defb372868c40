package engine

import (
	"math"
	"sort"
	"strings"
)

// MatchScenarios ranks scenarios with the fallback heuristic and keeps the best TopN.
// Ties keep catalog order.
func MatchScenarios(q Questionnaire, scenarios []Scenario) []Match {
	matches := make([]Match, 0, len(scenarios))
	for _, sc := range scenarios {
		matches = append(matches, matchOne(q, sc))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > TopN {
		matches = matches[:TopN]
	}
	return matches
}

func matchOne(q Questionnaire, sc Scenario) Match {
	score := 0
	reasons := make([]string, 0, 5)

	if sc.FitsSite(q.SiteType) {
		score += 30
		reasons = append(reasons, "Compatible avec votre type de site")
	}

	if q.Budget > 0 {
		if sc.FitsBudget(q.Budget) {
			score += 25
			reasons = append(reasons, "Correspond à votre budget")
		}
	} else {
		score += 10
	}

	switch {
	case q.ElectricityBill > 500000 && sc.Category == CategoryPremium:
		score += 20
		reasons = append(reasons, "Recommandé pour votre niveau de consommation")
	case q.ElectricityBill > 200000 && sc.Category == CategoryStandard:
		score += 20
		reasons = append(reasons, "Optimal pour votre consommation")
	case sc.Category == CategoryEconomique:
		score += 15
		reasons = append(reasons, "Solution économique adaptée")
	}

	if q.HasNeed(NeedPredictiveAI) && sc.Category == CategoryPremium {
		score += 15
		reasons = append(reasons, "Inclut intelligence artificielle")
	}

	if q.HasNeed(NeedRemoteControl) {
		score += 10
		reasons = append(reasons, "Contrôle à distance disponible")
	}

	monthly := q.ElectricityBill * sc.EstimatedSavings / 100
	return Match{
		Scenario:       sc,
		Score:          score,
		MatchReason:    strings.Join(reasons, ", "),
		Reasons:        reasons,
		MonthlySavings: math.Round(monthly),
		AnnualSavings:  math.Round(monthly * 12),
	}
}
