// Package transport holds the request and response types of the training endpoints.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type AddTrainingDataRequest struct {
	SiteType              string   `json:"siteType" validate:"required,max=50"`
	ElectricityBill       float64  `json:"electricityBill" validate:"required,gt=0"`
	InstallationPower     float64  `json:"installationPower" validate:"gte=0"`
	MeasurementPoints     int      `json:"measurementPoints" validate:"gte=0"`
	Budget                float64  `json:"budget" validate:"gte=0"`
	ZonesCount            int      `json:"zonesCount" validate:"gte=0"`
	SpecificNeeds         []string `json:"specificNeeds" validate:"omitempty,dive,max=100"`
	ChosenScenario        string   `json:"chosenScenario" validate:"omitempty,oneof=economique standard premium"`
	ActualSavings         float64  `json:"actualSavings" validate:"gte=0,lte=100"`
	Satisfaction          *int     `json:"satisfaction" validate:"omitempty,min=1,max=5"`
	ROIMonths             int      `json:"roiMonths" validate:"gte=0"`
	ImplementationSuccess *bool    `json:"implementationSuccess"`
}

type CollectProjectDataRequest struct {
	LeadID         uuid.UUID  `json:"leadId" validate:"required"`
	ScenarioID     *uuid.UUID `json:"scenarioId"`
	SavingsPercent float64    `json:"savingsPercent" validate:"gte=0,lte=100"`
	Success        *bool      `json:"success"`
	Satisfaction   *int       `json:"satisfaction" validate:"omitempty,min=1,max=5"`
	ROIMonths      int        `json:"roiMonths" validate:"gte=0"`
}

type ActivateModelRequest struct {
	ModelVersion string `json:"modelVersion" validate:"required,max=20"`
}

type ListTrainingDataQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=1000"`
}

type TrainingDataResponse struct {
	ID                     uuid.UUID `json:"id"`
	SiteType               string    `json:"siteType"`
	ElectricityBill        float64   `json:"electricityBill"`
	InstallationPower      float64   `json:"installationPower"`
	MeasurementPoints      int       `json:"measurementPoints"`
	Budget                 float64   `json:"budget"`
	ZonesCount             int       `json:"zonesCount"`
	SpecificNeeds          []string  `json:"specificNeeds"`
	ChosenScenarioCategory *string   `json:"chosenScenarioCategory"`
	ActualSavingsPercent   float64   `json:"actualSavingsPercent"`
	ImplementationSuccess  bool      `json:"implementationSuccess"`
	CustomerSatisfaction   *int      `json:"customerSatisfaction"`
	ROIMonths              int       `json:"roiMonths"`
	CreatedAt              time.Time `json:"createdAt"`
}

type SitePattern struct {
	Count      int     `json:"count"`
	AvgSavings float64 `json:"avgSavings"`
	MostChosen string  `json:"mostChosen,omitempty"`
}

type ScenarioPattern struct {
	Count      int     `json:"count"`
	AvgSavings float64 `json:"avgSavings"`
	AvgROI     float64 `json:"avgROI"`
}

type TrainingStatsResponse struct {
	SitePatterns     map[string]SitePattern     `json:"sitePatterns"`
	ScenarioPatterns map[string]ScenarioPattern `json:"scenarioPatterns"`
	TotalSamples     int                        `json:"totalSamples"`
}

type ModelResponse struct {
	ID                uuid.UUID `json:"id"`
	ModelVersion      string    `json:"modelVersion"`
	Accuracy          float64   `json:"accuracy"`
	Precision         float64   `json:"precision"`
	Recall            float64   `json:"recall"`
	F1                float64   `json:"f1"`
	MeanAbsoluteError float64   `json:"meanAbsoluteError"`
	TrainingSamples   int       `json:"trainingSamples"`
	LastTrainedAt     time.Time `json:"lastTrainedAt"`
	IsActive          bool      `json:"isActive"`
}

type RealtimeStats struct {
	TotalPredictions int        `json:"totalPredictions"`
	AvgError         float64    `json:"avgError"`
	Accuracy         float64    `json:"accuracy"`
	LastUpdated      *time.Time `json:"lastUpdated,omitempty"`
	Message          string     `json:"message,omitempty"`
}

type ModelMetricsResponse struct {
	ActiveModel   ModelResponse   `json:"activeModel"`
	RealtimeStats RealtimeStats   `json:"realtimeStats"`
	ModelHistory  []ModelResponse `json:"modelHistory"`
}

type CollectProjectDataResponse struct {
	Sample        TrainingDataResponse `json:"sample"`
	ShouldRetrain bool                 `json:"shouldRetrain"`
	NewDataCount  int                  `json:"newDataCount"`
}

type TrainResponse struct {
	Model ModelResponse         `json:"model"`
	Stats TrainingStatsResponse `json:"stats"`
}
