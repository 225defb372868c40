// Package scoring ranks captured leads for the sales team.
// All functions are pure and operate on the questionnaire figures of a lead.
package scoring

import (
	"fmt"
	"math"
	"slices"
)

// Priority levels.
const (
	PriorityHot  = "HOT"
	PriorityWarm = "WARM"
	PriorityCold = "COLD"
)

const (
	hotThreshold  = 70
	warmThreshold = 45

	// potentialMultiplier is months × expected contract factor applied to the monthly bill.
	potentialMultiplier = 12 * 2.5
)

// Input holds the lead figures used by scoring.
type Input struct {
	ElectricityBill   float64
	InstallationPower float64
	Budget            float64
	SpecificNeeds     []string
	ZonesToMonitor    []string
}

// Breakdown is the per-factor contribution to the score.
type Breakdown struct {
	Bill   float64 `json:"bill"`
	Power  float64 `json:"power"`
	Budget float64 `json:"budget"`
	Needs  float64 `json:"needs"`
	Zones  float64 `json:"zones"`
}

// Priority describes a priority bucket as rendered in the back office.
type Priority struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Result is the full scoring output.
type Result struct {
	Total     int       `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
	Priority  Priority  `json:"priority"`
}

// Score computes the lead score and its priority.
func Score(in Input) Result {
	b := Breakdown{
		Bill:  billPoints(in.ElectricityBill),
		Power: powerPoints(in.InstallationPower),
		Needs: math.Min(float64(len(in.SpecificNeeds))*4, 15),
		Zones: math.Min(float64(len(in.ZonesToMonitor))*2.5, 10),
	}
	if in.Budget > 0 {
		b.Budget = budgetPoints(in.Budget)
	}

	// Priority is bucketed on the raw sum so a 69.5 stays WARM.
	sum := b.Bill + b.Power + b.Budget + b.Needs + b.Zones
	return Result{Total: int(math.Round(sum)), Breakdown: b, Priority: priorityFor(sum)}
}

// PriorityFor maps a stored total score to its bucket.
func PriorityFor(total int) Priority {
	return priorityFor(float64(total))
}

func priorityFor(sum float64) Priority {
	switch {
	case sum >= hotThreshold:
		return Priority{Level: PriorityHot, Label: "Priorité Haute", Color: "#e74c3c"}
	case sum >= warmThreshold:
		return Priority{Level: PriorityWarm, Label: "Priorité Moyenne", Color: "#f39c12"}
	default:
		return Priority{Level: PriorityCold, Label: "Priorité Basse", Color: "#3498db"}
	}
}

func billPoints(bill float64) float64 {
	switch {
	case bill >= 500000:
		return 30
	case bill >= 300000:
		return 25
	case bill >= 200000:
		return 20
	case bill >= 100000:
		return 15
	case bill >= 50000:
		return 10
	default:
		return 5
	}
}

func powerPoints(power float64) float64 {
	switch {
	case power >= 100:
		return 25
	case power >= 75:
		return 20
	case power >= 50:
		return 15
	case power >= 25:
		return 10
	default:
		return 5
	}
}

func budgetPoints(budget float64) float64 {
	switch {
	case budget >= 15_000_000:
		return 20
	case budget >= 10_000_000:
		return 17
	case budget >= 5_000_000:
		return 14
	case budget >= 3_000_000:
		return 10
	default:
		return 5
	}
}

// CommercialPotential estimates the contract value in FCFA, capped by the declared budget.
func CommercialPotential(in Input) float64 {
	potential := in.ElectricityBill * potentialMultiplier
	if in.Budget > 0 {
		potential = math.Min(potential, in.Budget)
	}
	return potential
}

// Needs that drive the analysis.
const (
	NeedReduceCosts      = "Réduire les coûts"
	NeedOptimizeUpkeep   = "Optimiser la maintenance"
	NeedSupportExtension = "Accompagner une extension"
	NeedMonitoring       = "Surveillance/suivi de la consommation"
)

// Urgency levels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

var primaryNeedLabels = []struct {
	need  string
	label string
}{
	{NeedReduceCosts, "Réduction des coûts énergétiques"},
	{NeedOptimizeUpkeep, "Optimisation de la maintenance"},
	{NeedSupportExtension, "Extension de capacité"},
	{NeedMonitoring, "Monitoring énergétique"},
}

// NeedsAnalysis summarises what the prospect is after.
type NeedsAnalysis struct {
	PrimaryNeed         string `json:"primaryNeed"`
	RecommendedScenario string `json:"recommendedScenario"`
	Urgency             string `json:"urgency"`
}

// AnalyzeNeeds derives the primary need, the suggested tier and the urgency.
func AnalyzeNeeds(in Input, total int) NeedsAnalysis {
	analysis := NeedsAnalysis{PrimaryNeed: "Surveillance générale"}
	for _, candidate := range primaryNeedLabels {
		if slices.Contains(in.SpecificNeeds, candidate.need) {
			analysis.PrimaryNeed = candidate.label
			break
		}
	}

	switch {
	case total >= hotThreshold || in.Budget >= 10_000_000:
		analysis.RecommendedScenario = "premium"
	case total >= warmThreshold || in.Budget >= 5_000_000:
		analysis.RecommendedScenario = "standard"
	default:
		analysis.RecommendedScenario = "economic"
	}

	switch {
	case slices.Contains(in.SpecificNeeds, NeedReduceCosts) && in.ElectricityBill > 300000,
		slices.Contains(in.SpecificNeeds, NeedSupportExtension):
		analysis.Urgency = UrgencyHigh
	case len(in.SpecificNeeds) >= 3:
		analysis.Urgency = UrgencyMedium
	default:
		analysis.Urgency = UrgencyLow
	}
	return analysis
}

// Insights returns the talking points for a lead, most important first.
func Insights(in Input) []string {
	result := Score(in)
	analysis := AnalyzeNeeds(in, result.Total)
	potential := CommercialPotential(in)

	insights := make([]string, 0, 7)
	if result.Priority.Level == PriorityHot {
		insights = append(insights, "🔥 Lead à forte valeur - Priorité de contact immédiate")
	}
	if in.ElectricityBill > 400000 {
		insights = append(insights, "💰 Facture élevée - Fort potentiel d'économies")
	}
	if in.InstallationPower > 75 {
		insights = append(insights, "⚡ Installation importante - Solution complète recommandée")
	}
	if analysis.Urgency == UrgencyHigh {
		insights = append(insights, "⏱️ Besoin urgent identifié - Contact rapide nécessaire")
	}
	if potential > 10_000_000 {
		insights = append(insights, fmt.Sprintf("💎 Potentiel commercial estimé: %.1fM FCFA", potential/1_000_000))
	}
	if len(in.SpecificNeeds) >= 3 {
		insights = append(insights, "🎯 Besoins multiples - Opportunité cross-sell")
	}
	if len(in.ZonesToMonitor) >= 5 {
		insights = append(insights, "📊 Nombreuses zones - Installation complexe")
	}
	return insights
}
