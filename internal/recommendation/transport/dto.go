package transport

import (
	"sakkanal_backend/internal/recommendation/engine"

	"github.com/google/uuid"
)

// Response modes.
const (
	ModePrediction = "prediction"
	ModeMatch      = "match"
)

// QuestionnaireRequest carries the funnel answers.
type QuestionnaireRequest struct {
	SiteType          string   `json:"siteType" validate:"required,max=100"`
	ElectricityBill   float64  `json:"electricityBill" validate:"gt=0"`
	InstallationPower float64  `json:"installationPower" validate:"gte=0"`
	MeasurementPoints int      `json:"measurementPoints" validate:"gte=0,max=10000"`
	Budget            float64  `json:"budget" validate:"gte=0"`
	ZonesToMonitor    []string `json:"zonesToMonitor" validate:"max=50,dive,max=200"`
	SpecificNeeds     []string `json:"specificNeeds" validate:"max=50,dive,max=200"`
}

// ToEngine converts the request to the engine's questionnaire.
func (r QuestionnaireRequest) ToEngine() engine.Questionnaire {
	return engine.Questionnaire{
		SiteType:          r.SiteType,
		ElectricityBill:   r.ElectricityBill,
		InstallationPower: r.InstallationPower,
		MeasurementPoints: r.MeasurementPoints,
		Budget:            r.Budget,
		ZonesToMonitor:    r.ZonesToMonitor,
		SpecificNeeds:     r.SpecificNeeds,
	}
}

// RecommendRequest asks for the top scenarios. LeadID links the stored prediction.
type RecommendRequest struct {
	QuestionnaireRequest
	LeadID *uuid.UUID `json:"leadId,omitempty"`
}

// CompareRequest compares 2 or 3 scenarios, or the whole catalog when no id is given.
type CompareRequest struct {
	Questionnaire QuestionnaireRequest `json:"questionnaire"`
	ScenarioIDs   []uuid.UUID          `json:"scenarioIds" validate:"omitempty,min=2,max=3,unique"`
}

// RecommendedScenario is one ranked scenario. Prediction-only fields are omitted in match mode.
type RecommendedScenario struct {
	Scenario          engine.Scenario `json:"scenario"`
	Score             int             `json:"score"`
	MatchReason       string          `json:"matchReason"`
	MatchReasons      []string        `json:"matchReasons"`
	CalculatedSavings *float64        `json:"calculatedSavings,omitempty"`
	CalculatedROI     *int            `json:"calculatedROI,omitempty"`
	MonthlySavings    float64         `json:"monthlySavings"`
	AnnualSavings     float64         `json:"annualSavings"`
}

// RecommendResponse is returned by the recommendation endpoint.
type RecommendResponse struct {
	Mode      string                `json:"mode"`
	Scenarios []RecommendedScenario `json:"scenarios"`
	Advice    []engine.Advice       `json:"advice"`
}

// CompareResponse is returned by the comparison endpoint.
type CompareResponse = engine.ComparisonResult
