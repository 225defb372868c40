package service

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"sakkanal_backend/internal/training/repository"
	"sakkanal_backend/internal/training/transport"
	"sakkanal_backend/platform/format"
)

const (
	// MinTrainingSamples is the smallest dataset a model can be trained on.
	MinTrainingSamples = 5
	// RetrainThreshold is the number of samples collected over RetrainWindow that suggests retraining.
	RetrainThreshold = 10
	RetrainWindow    = 30 * 24 * time.Hour

	outcomeWindow        = 50
	modelHistoryLimit    = 10
	accurateWithinPoints = 5.0
	noPredictionsMessage = "Aucune prédiction disponible"
)

// ComputeStats aggregates samples per site type and per scenario category.
func ComputeStats(samples []repository.Sample) transport.TrainingStatsResponse {
	type siteAcc struct {
		count     int
		savings   float64
		scenarios map[string]int
	}
	type scenarioAcc struct {
		count   int
		savings float64
		roi     int
	}

	sites := make(map[string]*siteAcc)
	scenarios := make(map[string]*scenarioAcc)

	for _, s := range samples {
		site, ok := sites[s.SiteType]
		if !ok {
			site = &siteAcc{scenarios: make(map[string]int)}
			sites[s.SiteType] = site
		}
		site.count++
		site.savings += s.ActualSavingsPercent

		if s.ChosenScenarioCategory == nil || *s.ChosenScenarioCategory == "" {
			continue
		}
		category := *s.ChosenScenarioCategory
		site.scenarios[category]++

		sc, ok := scenarios[category]
		if !ok {
			sc = &scenarioAcc{}
			scenarios[category] = sc
		}
		sc.count++
		sc.savings += s.ActualSavingsPercent
		sc.roi += s.ROIMonths
	}

	out := transport.TrainingStatsResponse{
		SitePatterns:     make(map[string]transport.SitePattern, len(sites)),
		ScenarioPatterns: make(map[string]transport.ScenarioPattern, len(scenarios)),
		TotalSamples:     len(samples),
	}
	for name, acc := range sites {
		out.SitePatterns[name] = transport.SitePattern{
			Count:      acc.count,
			AvgSavings: format.Round(acc.savings/float64(acc.count), 2),
			MostChosen: mostChosen(acc.scenarios),
		}
	}
	for name, acc := range scenarios {
		out.ScenarioPatterns[name] = transport.ScenarioPattern{
			Count:      acc.count,
			AvgSavings: format.Round(acc.savings/float64(acc.count), 2),
			AvgROI:     format.Round(float64(acc.roi)/float64(acc.count), 2),
		}
	}
	return out
}

// mostChosen returns the most frequent category; ties resolve alphabetically.
func mostChosen(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// ComputeRealtimeStats compares stored predictions with the savings observed on site.
// Predictions without a predicted value count towards n but add no error.
func ComputeRealtimeStats(outcomes []repository.PredictionOutcome, now time.Time) transport.RealtimeStats {
	if len(outcomes) == 0 {
		return transport.RealtimeStats{Message: noPredictionsMessage}
	}

	var totalErr float64
	correct := 0
	for _, o := range outcomes {
		if o.PredictedSavings == nil {
			continue
		}
		diff := math.Abs(*o.PredictedSavings - o.ActualSavings)
		totalErr += diff
		if diff < accurateWithinPoints {
			correct++
		}
	}

	n := float64(len(outcomes))
	return transport.RealtimeStats{
		TotalPredictions: len(outcomes),
		AvgError:         format.Round(totalErr/n, 2),
		Accuracy:         math.Round(float64(correct) / n * 100),
		LastUpdated:      &now,
	}
}

// Metrics are the simulated scores of a training run.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	MAE       float64
}

// SimulateMetrics draws plausible scores from r. The panel does not train a real model.
func SimulateMetrics(r *rand.Rand) Metrics {
	m := Metrics{
		Accuracy:  0.85 + r.Float64()*0.1,
		Precision: 0.82 + r.Float64()*0.1,
		Recall:    0.80 + r.Float64()*0.1,
		MAE:       2 + r.Float64()*2,
	}
	m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)

	m.Accuracy = format.Round(m.Accuracy, 4)
	m.Precision = format.Round(m.Precision, 4)
	m.Recall = format.Round(m.Recall, 4)
	m.F1 = format.Round(m.F1, 4)
	m.MAE = format.Round(m.MAE, 3)
	return m
}

// NextVersion names the model trained after existing previous ones.
func NextVersion(existing int) string {
	return fmt.Sprintf("v%d.0", existing+1)
}
