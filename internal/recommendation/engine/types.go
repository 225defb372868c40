// Package engine scores catalog scenarios against questionnaire answers.
// Everything here is deterministic and free of I/O.
package engine

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

// Scenario categories.
const (
	CategoryEconomique = "economique"
	CategoryStandard   = "standard"
	CategoryPremium    = "premium"
)

// Needs that influence scoring.
const (
	NeedPredictiveAI          = "IA prédictive"
	NeedRemoteControl         = "Pilotage à distance"
	NeedPredictiveMaintenance = "Maintenance prédictive"
	NeedPreventiveMaintenance = "Maintenance préventive"
	NeedAutomaticReports      = "Rapports automatiques"
)

// TopN is the number of recommendations returned to the prospect.
const TopN = 3

// Questionnaire holds the answers of the public funnel.
// A zero Budget means the prospect did not specify one.
type Questionnaire struct {
	SiteType          string   `json:"siteType"`
	ElectricityBill   float64  `json:"electricityBill"`
	InstallationPower float64  `json:"installationPower"`
	MeasurementPoints int      `json:"measurementPoints"`
	Budget            float64  `json:"budget"`
	ZonesToMonitor    []string `json:"zonesToMonitor"`
	SpecificNeeds     []string `json:"specificNeeds"`
}

// HasNeed reports whether the prospect ticked need.
func (q Questionnaire) HasNeed(need string) bool {
	return slices.Contains(q.SpecificNeeds, need)
}

// Scenario is the catalog offer as seen by the engine.
type Scenario struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	SiteTypes         []string        `json:"siteTypes"`
	MinBudget         float64         `json:"minBudget"`
	MaxBudget         *float64        `json:"maxBudget"`
	Products          json.RawMessage `json:"products,omitempty"`
	EstimatedSavings  float64         `json:"estimatedSavings"`
	EquipmentLifespan int             `json:"equipmentLifespan"`
	Description       string          `json:"description"`
}

// FitsSite reports whether siteType is listed by the scenario.
func (s Scenario) FitsSite(siteType string) bool {
	return slices.Contains(s.SiteTypes, siteType)
}

// FitsBudget reports whether budget lies in [min, max]; a missing max is unbounded.
func (s Scenario) FitsBudget(budget float64) bool {
	return budget >= s.MinBudget && (s.MaxBudget == nil || budget <= *s.MaxBudget)
}

// TrainingSample is one historical project outcome.
type TrainingSample struct {
	SiteType               string  `json:"siteType"`
	ElectricityBill        float64 `json:"electricityBill"`
	ChosenScenarioCategory string  `json:"chosenScenarioCategory"`
	ActualSavingsPercent   float64 `json:"actualSavingsPercent"`
	ImplementationSuccess  bool    `json:"implementationSuccess"`
}

// Match is a scenario ranked by the heuristic.
type Match struct {
	Scenario       Scenario `json:"scenario"`
	Score          int      `json:"score"`
	MatchReason    string   `json:"matchReason"`
	Reasons        []string `json:"reasons"`
	MonthlySavings float64  `json:"monthlySavings"`
	AnnualSavings  float64  `json:"annualSavings"`
}

// Prediction is a scenario ranked by the history-weighted model.
type Prediction struct {
	Scenario          Scenario `json:"scenario"`
	Score             int      `json:"score"`
	CalculatedSavings float64  `json:"calculatedSavings"`
	CalculatedROI     int      `json:"calculatedROI"`
	MatchReasons      []string `json:"matchReasons"`
	MonthlySavings    float64  `json:"monthlySavings"`
	AnnualSavings     float64  `json:"annualSavings"`
}

// Advice is a personalised hint shown under the predictions.
type Advice struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// PredictionResult is the output of Predict.
type PredictionResult struct {
	Scenarios []Prediction `json:"scenarios"`
	Advice    []Advice     `json:"advice"`
}
