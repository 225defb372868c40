package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func catalog() []Scenario {
	return []Scenario{
		{ID: uuid.New(), Name: "Essentiel", Category: CategoryEconomique, SiteTypes: []string{"bureau", "commerce"}, MinBudget: 1_500_000, MaxBudget: ptr(4_000_000), EstimatedSavings: 15, EquipmentLifespan: 8},
		{ID: uuid.New(), Name: "Performance", Category: CategoryStandard, SiteTypes: []string{"bureau", "usine", "commerce", "immeuble"}, MinBudget: 4_000_000, MaxBudget: ptr(10_000_000), EstimatedSavings: 25, EquipmentLifespan: 10},
		{ID: uuid.New(), Name: "Intelligence", Category: CategoryPremium, SiteTypes: []string{"usine", "immeuble"}, MinBudget: 10_000_000, EstimatedSavings: 35, EquipmentLifespan: 12},
	}
}

func TestMatchScenariosScoresAndReasons(t *testing.T) {
	scenarios := catalog()
	q := Questionnaire{SiteType: "usine", ElectricityBill: 600_000, Budget: 12_000_000, SpecificNeeds: []string{NeedPredictiveAI, NeedRemoteControl}}

	got := MatchScenarios(q, scenarios)
	require.Len(t, got, 3)

	// premium: site 30 + budget 25 + consumption 20 + AI 15 + remote 10
	assert.Equal(t, "Intelligence", got[0].Scenario.Name)
	assert.Equal(t, 100, got[0].Score)
	assert.Equal(t, "Compatible avec votre type de site, Correspond à votre budget, Recommandé pour votre niveau de consommation, Inclut intelligence artificielle, Contrôle à distance disponible", got[0].MatchReason)
	assert.Equal(t, float64(210_000), got[0].MonthlySavings)
	assert.Equal(t, float64(2_520_000), got[0].AnnualSavings)

	// standard: site 30 + consumption 20 + remote 10
	assert.Equal(t, "Performance", got[1].Scenario.Name)
	assert.Equal(t, 60, got[1].Score)

	// economique: consumption 15 + remote 10
	assert.Equal(t, "Essentiel", got[2].Scenario.Name)
	assert.Equal(t, 25, got[2].Score)
	assert.Equal(t, []string{"Solution économique adaptée", "Contrôle à distance disponible"}, got[2].Reasons)
}

func TestMatchScenariosWithoutBudget(t *testing.T) {
	q := Questionnaire{SiteType: "bureau", ElectricityBill: 100_000}
	got := MatchScenarios(q, catalog())
	require.Len(t, got, 3)

	assert.Equal(t, "Essentiel", got[0].Scenario.Name)
	assert.Equal(t, 30+10+15, got[0].Score)
	assert.Equal(t, "Performance", got[1].Scenario.Name)
	assert.Equal(t, 40, got[1].Score)
	assert.Equal(t, 10, got[2].Score)
}

func TestMatchScenariosStableOnTies(t *testing.T) {
	a := Scenario{ID: uuid.New(), Name: "A", Category: CategoryStandard}
	b := Scenario{ID: uuid.New(), Name: "B", Category: CategoryStandard}
	c := Scenario{ID: uuid.New(), Name: "C", Category: CategoryStandard}
	d := Scenario{ID: uuid.New(), Name: "D", Category: CategoryStandard}

	got := MatchScenarios(Questionnaire{ElectricityBill: 1000}, []Scenario{a, b, c, d})
	require.Len(t, got, TopN)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Scenario.Name, got[1].Scenario.Name, got[2].Scenario.Name})
}

func TestMatchScenariosEmptyCatalog(t *testing.T) {
	got := MatchScenarios(Questionnaire{SiteType: "bureau"}, nil)
	assert.Empty(t, got)
}

func TestPredictUsesHistory(t *testing.T) {
	scenarios := catalog()
	q := Questionnaire{SiteType: "usine", ElectricityBill: 600_000, InstallationPower: 200, MeasurementPoints: 20, Budget: 12_000_000, SpecificNeeds: []string{NeedPredictiveAI}}
	history := []TrainingSample{
		{SiteType: "usine", ElectricityBill: 550_000, ChosenScenarioCategory: CategoryPremium, ActualSavingsPercent: 38, ImplementationSuccess: true},
		{SiteType: "usine", ElectricityBill: 620_000, ChosenScenarioCategory: CategoryPremium, ActualSavingsPercent: 40, ImplementationSuccess: true},
		{SiteType: "usine", ElectricityBill: 700_000, ChosenScenarioCategory: CategoryPremium, ActualSavingsPercent: 42, ImplementationSuccess: true},
	}

	got := Predict(q, scenarios, history)
	require.Len(t, got.Scenarios, 3)

	top := got.Scenarios[0]
	assert.Equal(t, "Intelligence", top.Scenario.Name)
	// 30 + 25 + 15 + 10 + 15 + 5
	assert.Equal(t, 100, top.Score)
	// 0.6*35 + 0.4*40 = 37, +1.5 +1 +2 = 41.5
	assert.InDelta(t, 41.5, top.CalculatedSavings, 1e-9)
	assert.Equal(t, float64(249_000), top.MonthlySavings)
	assert.Equal(t, float64(2_988_000), top.AnnualSavings)
	// cost (10M + 15M)/2 = 12.5M, 12.5M/249k = 50.2 -> 51
	assert.Equal(t, 51, top.CalculatedROI)
	assert.Contains(t, top.MatchReasons, "Solution éprouvée avec 100% de succès")
	assert.Contains(t, top.MatchReasons, "Économies moyennes constatées: 40.0%")
	assert.Contains(t, top.MatchReasons, "Inclut: IA prédictive")

	require.Len(t, got.Advice, 1)
	assert.Equal(t, "technical", got.Advice[0].Type)
}

func TestPredictSavingsClamp(t *testing.T) {
	sc := Scenario{ID: uuid.New(), Name: "Low", Category: CategoryEconomique, MinBudget: 100_000, MaxBudget: ptr(200_000), EstimatedSavings: 2}
	got := Predict(Questionnaire{ElectricityBill: 100_000}, []Scenario{sc}, nil)
	require.Len(t, got.Scenarios, 1)
	assert.InDelta(t, 10.0, got.Scenarios[0].CalculatedSavings, 1e-9)

	sc.EstimatedSavings = 80
	got = Predict(Questionnaire{ElectricityBill: 100_000}, []Scenario{sc}, nil)
	assert.InDelta(t, 45.0, got.Scenarios[0].CalculatedSavings, 1e-9)
}

func TestPredictNearBudgetAndFinancialAdvice(t *testing.T) {
	sc := Scenario{ID: uuid.New(), Name: "Std", Category: CategoryStandard, SiteTypes: []string{"bureau"}, MinBudget: 1_000_000, MaxBudget: ptr(1_000_000), EstimatedSavings: 25}
	q := Questionnaire{SiteType: "bureau", ElectricityBill: 400_000, MeasurementPoints: 2, Budget: 800_000}

	got := Predict(q, []Scenario{sc}, nil)
	require.Len(t, got.Scenarios, 1)
	top := got.Scenarios[0]
	assert.Contains(t, top.MatchReasons, "Budget légèrement inférieur mais réalisable")
	// 30 + 15 + 15
	assert.Equal(t, 60, top.Score)
	// monthly 100k, cost 1M -> 10 months
	assert.Equal(t, 10, top.CalculatedROI)

	types := make([]string, 0, len(got.Advice))
	for _, a := range got.Advice {
		types = append(types, a.Type)
	}
	assert.Equal(t, []string{"financial", "optimization"}, types)
	assert.Equal(t, "Votre investissement sera rentabilisé en 10 mois seulement", got.Advice[0].Description)
}

func TestPredictEmptyCatalog(t *testing.T) {
	got := Predict(Questionnaire{SiteType: "bureau", ElectricityBill: 1}, nil, nil)
	assert.Empty(t, got.Scenarios)
	assert.Empty(t, got.Advice)
}

func TestEstimatedCost(t *testing.T) {
	assert.InDelta(t, 2_750_000, EstimatedCost(Scenario{MinBudget: 1_500_000, MaxBudget: ptr(4_000_000)}), 1e-9)
	assert.InDelta(t, 12_500_000, EstimatedCost(Scenario{MinBudget: 10_000_000}), 1e-9)
}

func TestCompareMetricsAndBest(t *testing.T) {
	scenarios := catalog()
	q := Questionnaire{SiteType: "usine", ElectricityBill: 600_000, MeasurementPoints: 20, Budget: 12_000_000, SpecificNeeds: []string{NeedPreventiveMaintenance}}

	got := Compare(q, scenarios)
	require.Len(t, got.Items, 3)

	premium := got.Items[0]
	assert.Equal(t, "Intelligence", premium.Scenario.Name)
	// 30 + 25 + 25 + 10 + 10
	assert.Equal(t, 100, premium.Score)
	assert.InDelta(t, 15_000_000, premium.Metrics.InitialInvestment, 1e-9)
	assert.InDelta(t, 210_000, premium.Metrics.MonthlySavings, 1e-9)
	assert.Equal(t, 71, premium.Metrics.ROIMonths)
	assert.Equal(t, 95, premium.Metrics.EnergyEfficiency)
	assert.InDelta(t, 2_520_000*5-15_000_000, premium.Metrics.TotalSavings5Years, 1e-9)

	essentiel := scenarios[0]
	m := Metrics(q, essentiel)
	assert.InDelta(t, 2_750_000, m.InitialInvestment, 1e-9)
	assert.Equal(t, 31, m.ROIMonths)
	assert.Equal(t, 70, m.EnergyEfficiency)

	require.NotNil(t, got.Best.Compatibility)
	assert.Equal(t, premium.Scenario.ID, *got.Best.Compatibility)
	require.NotNil(t, got.Best.ROI)
	assert.Equal(t, essentiel.ID, *got.Best.ROI)
	require.NotNil(t, got.Best.TotalSavings)
}

func TestCompareZeroBillHasNoROIWinner(t *testing.T) {
	got := Compare(Questionnaire{}, catalog())
	for _, item := range got.Items {
		assert.Zero(t, item.Metrics.ROIMonths)
	}
	assert.Nil(t, got.Best.ROI)
	assert.NotNil(t, got.Best.Compatibility)
}
