package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBuckets(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		total int
		level string
	}{
		{
			name:  "minimal lead",
			in:    Input{ElectricityBill: 10_000},
			total: 10,
			level: PriorityCold,
		},
		{
			name:  "mid sized site",
			in:    Input{ElectricityBill: 250_000, InstallationPower: 60, Budget: 4_000_000, SpecificNeeds: []string{"a"}},
			total: 20 + 15 + 10 + 4,
			level: PriorityWarm,
		},
		{
			name: "large industrial site",
			in: Input{
				ElectricityBill:   600_000,
				InstallationPower: 150,
				Budget:            20_000_000,
				SpecificNeeds:     []string{"a", "b", "c", "d"},
				ZonesToMonitor:    []string{"1", "2", "3", "4", "5"},
			},
			total: 30 + 25 + 20 + 15 + 10,
			level: PriorityHot,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.in)
			assert.Equal(t, tc.total, got.Total)
			assert.Equal(t, tc.level, got.Priority.Level)
		})
	}
}

func TestScoreIgnoresMissingBudget(t *testing.T) {
	got := Score(Input{ElectricityBill: 100_000, InstallationPower: 30})
	assert.Zero(t, got.Breakdown.Budget)
	assert.Equal(t, 25, got.Total)
}

func TestScoreHalfPointStaysInLowerBucket(t *testing.T) {
	// 30 + 25 + 12 + 2.5 = 69.5
	in := Input{
		ElectricityBill:   500_000,
		InstallationPower: 100,
		SpecificNeeds:     []string{"a", "b", "c"},
		ZonesToMonitor:    []string{"1"},
	}
	got := Score(in)
	assert.Equal(t, 70, got.Total)
	assert.Equal(t, PriorityWarm, got.Priority.Level)

	in.ZonesToMonitor = append(in.ZonesToMonitor, "2")
	assert.Equal(t, PriorityHot, Score(in).Priority.Level)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, Priority{Level: PriorityHot, Label: "Priorité Haute", Color: "#e74c3c"}, PriorityFor(70))
	assert.Equal(t, Priority{Level: PriorityWarm, Label: "Priorité Moyenne", Color: "#f39c12"}, PriorityFor(45))
	assert.Equal(t, Priority{Level: PriorityCold, Label: "Priorité Basse", Color: "#3498db"}, PriorityFor(44))
}

func TestCommercialPotential(t *testing.T) {
	assert.InDelta(t, 3_000_000, CommercialPotential(Input{ElectricityBill: 100_000}), 1e-6)
	assert.InDelta(t, 2_000_000, CommercialPotential(Input{ElectricityBill: 100_000, Budget: 2_000_000}), 1e-6)
}

func TestAnalyzeNeeds(t *testing.T) {
	got := AnalyzeNeeds(Input{ElectricityBill: 400_000, SpecificNeeds: []string{NeedOptimizeUpkeep, NeedReduceCosts}}, 50)
	assert.Equal(t, "Réduction des coûts énergétiques", got.PrimaryNeed)
	assert.Equal(t, "standard", got.RecommendedScenario)
	assert.Equal(t, UrgencyHigh, got.Urgency)

	got = AnalyzeNeeds(Input{ElectricityBill: 100_000, SpecificNeeds: []string{"x", "y", "z"}}, 10)
	assert.Equal(t, "Surveillance générale", got.PrimaryNeed)
	assert.Equal(t, "economic", got.RecommendedScenario)
	assert.Equal(t, UrgencyMedium, got.Urgency)

	got = AnalyzeNeeds(Input{Budget: 12_000_000, SpecificNeeds: []string{NeedSupportExtension}}, 10)
	assert.Equal(t, "Extension de capacité", got.PrimaryNeed)
	assert.Equal(t, "premium", got.RecommendedScenario)
	assert.Equal(t, UrgencyHigh, got.Urgency)

	got = AnalyzeNeeds(Input{ElectricityBill: 100_000, SpecificNeeds: []string{NeedReduceCosts}}, 10)
	assert.Equal(t, UrgencyLow, got.Urgency)
}

func TestInsightsOrder(t *testing.T) {
	in := Input{
		ElectricityBill:   600_000,
		InstallationPower: 150,
		SpecificNeeds:     []string{NeedReduceCosts, "b", "c"},
		ZonesToMonitor:    []string{"1", "2", "3", "4", "5"},
	}
	got := Insights(in)
	assert.Equal(t, []string{
		"🔥 Lead à forte valeur - Priorité de contact immédiate",
		"💰 Facture élevée - Fort potentiel d'économies",
		"⚡ Installation importante - Solution complète recommandée",
		"⏱️ Besoin urgent identifié - Contact rapide nécessaire",
		"💎 Potentiel commercial estimé: 18.0M FCFA",
		"🎯 Besoins multiples - Opportunité cross-sell",
		"📊 Nombreuses zones - Installation complexe",
	}, got)

	assert.Empty(t, Insights(Input{ElectricityBill: 10_000}))
}
