package engine

import (
	"fmt"
	"math"
	"sort"
)

const (
	minSavingsPercent = 10.0
	maxSavingsPercent = 45.0

	// HistoryBillLow and HistoryBillHigh bound the bills of comparable projects.
	HistoryBillLow  = 0.7
	HistoryBillHigh = 1.3
	// HistoryLimit caps the number of historical rows considered.
	HistoryLimit = 50
)

var needsMapping = map[string]map[string]float64{
	NeedPredictiveAI:          {CategoryPremium: 5, CategoryStandard: 2, CategoryEconomique: 0},
	NeedRemoteControl:         {CategoryPremium: 3, CategoryStandard: 3, CategoryEconomique: 1},
	NeedPredictiveMaintenance: {CategoryPremium: 4, CategoryStandard: 1, CategoryEconomique: 0},
	NeedAutomaticReports:      {CategoryPremium: 2, CategoryStandard: 2, CategoryEconomique: 1},
}

// Predict ranks scenarios using comparable historical projects and returns the
// best TopN with adjusted savings, payback period and advice.
// history should already be filtered to successful projects of the same site type
// with a bill within [0.7, 1.3] of the prospect's bill.
func Predict(q Questionnaire, scenarios []Scenario, history []TrainingSample) PredictionResult {
	if len(scenarios) == 0 {
		return PredictionResult{Scenarios: []Prediction{}}
	}

	predictions := make([]Prediction, 0, len(scenarios))
	for _, sc := range scenarios {
		predictions = append(predictions, predictOne(q, sc, history))
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})
	if len(predictions) > TopN {
		predictions = predictions[:TopN]
	}

	return PredictionResult{
		Scenarios: predictions,
		Advice:    adviseFor(q, predictions),
	}
}

func predictOne(q Questionnaire, sc Scenario, history []TrainingSample) Prediction {
	score := 0.0
	reasons := make([]string, 0, 8)

	if sc.FitsSite(q.SiteType) {
		score += 30
		reasons = append(reasons, "Parfaitement adapté à votre type de site")
	}

	if q.Budget > 0 {
		if sc.FitsBudget(q.Budget) {
			score += 25
			reasons = append(reasons, "Correspond parfaitement à votre budget")
		} else if q.Budget >= sc.MinBudget*0.7 {
			score += 15
			reasons = append(reasons, "Budget légèrement inférieur mais réalisable")
		}
	} else {
		score += 10
	}

	similar := make([]TrainingSample, 0)
	for _, h := range history {
		if h.ChosenScenarioCategory == sc.Category {
			similar = append(similar, h)
		}
	}

	var avgSavings float64
	if len(similar) > 0 {
		var sum float64
		successes := 0
		for _, h := range similar {
			sum += h.ActualSavingsPercent
			if h.ImplementationSuccess {
				successes++
			}
		}
		avgSavings = sum / float64(len(similar))
		successRate := float64(successes) / float64(len(similar))

		score += successRate * 15
		score += math.Min(avgSavings/40*10, 10)

		reasons = append(reasons,
			fmt.Sprintf("Solution éprouvée avec %d%% de succès", int(math.Round(successRate*100))),
			fmt.Sprintf("Économies moyennes constatées: %.1f%%", avgSavings),
		)
	}

	switch {
	case q.ElectricityBill > 500000 && sc.Category == CategoryPremium:
		score += 15
		reasons = append(reasons, "Optimisé pour les hautes consommations")
	case q.ElectricityBill > 200000 && sc.Category == CategoryStandard:
		score += 15
		reasons = append(reasons, "Idéal pour votre niveau de consommation")
	case sc.Category == CategoryEconomique:
		score += 12
		reasons = append(reasons, "Solution économique efficace")
	}

	for _, need := range q.SpecificNeeds {
		points := needsMapping[need][sc.Category]
		if points > 0 {
			score += points
			reasons = append(reasons, "Inclut: "+need)
		}
	}

	savings := sc.EstimatedSavings
	if len(similar) >= 3 {
		savings = savings*0.6 + avgSavings*0.4
	}
	if q.InstallationPower > 100 {
		savings += 1.5
	}
	if q.MeasurementPoints > 15 {
		savings += 1
	}
	if q.HasNeed(NeedPredictiveAI) {
		savings += 2
	}
	savings = math.Min(math.Max(savings, minSavingsPercent), maxSavingsPercent)

	monthly := q.ElectricityBill * savings / 100
	annual := monthly * 12
	roi := 0
	if monthly > 0 {
		roi = int(math.Ceil(EstimatedCost(sc) / monthly))
	}

	return Prediction{
		Scenario:          sc,
		Score:             int(math.Round(score)),
		CalculatedSavings: math.Round(savings*10) / 10,
		CalculatedROI:     roi,
		MatchReasons:      reasons,
		MonthlySavings:    math.Round(monthly),
		AnnualSavings:     math.Round(annual),
	}
}

// EstimatedCost is the midpoint of the budget range; an open range uses 1.5×min as its upper bound.
func EstimatedCost(sc Scenario) float64 {
	upper := sc.MinBudget * 1.5
	if sc.MaxBudget != nil && *sc.MaxBudget > 0 {
		upper = *sc.MaxBudget
	}
	return (sc.MinBudget + upper) / 2
}

func adviseFor(q Questionnaire, top []Prediction) []Advice {
	advice := make([]Advice, 0, 3)
	if len(top) == 0 {
		return advice
	}

	if roi := top[0].CalculatedROI; roi <= 12 {
		advice = append(advice, Advice{
			Type:        "financial",
			Title:       "Retour sur investissement rapide",
			Description: fmt.Sprintf("Votre investissement sera rentabilisé en %d mois seulement", roi),
			Impact:      "Rentabilité garantie",
		})
	}

	if q.InstallationPower > 150 {
		advice = append(advice, Advice{
			Type:        "technical",
			Title:       "Installation importante détectée",
			Description: "Nos solutions sont optimisées pour les grandes puissances installées",
			Impact:      "Performance maximisée",
		})
	}

	if q.MeasurementPoints < 5 && q.ElectricityBill > 300000 {
		advice = append(advice, Advice{
			Type:        "optimization",
			Title:       "Optimisation des points de mesure recommandée",
			Description: "Augmentez votre couverture de mesure pour de meilleurs résultats",
			Impact:      "+5 à 10% d'économies supplémentaires",
		})
	}

	return advice
}
