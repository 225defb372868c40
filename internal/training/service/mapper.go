package service

import (
	"strings"

	"sakkanal_backend/internal/training/repository"
	"sakkanal_backend/internal/training/transport"
)

func toSampleFromRequest(req transport.AddTrainingDataRequest) repository.Sample {
	success := true
	if req.ImplementationSuccess != nil {
		success = *req.ImplementationSuccess
	}

	var chosen *string
	if c := strings.TrimSpace(req.ChosenScenario); c != "" {
		chosen = &c
	}

	return repository.Sample{
		SiteType:               strings.ToLower(strings.TrimSpace(req.SiteType)),
		ElectricityBill:        req.ElectricityBill,
		InstallationPower:      req.InstallationPower,
		MeasurementPoints:      req.MeasurementPoints,
		Budget:                 req.Budget,
		ZonesCount:             req.ZonesCount,
		SpecificNeeds:          req.SpecificNeeds,
		ChosenScenarioCategory: chosen,
		ActualSavingsPercent:   req.ActualSavings,
		ImplementationSuccess:  success,
		CustomerSatisfaction:   req.Satisfaction,
		ROIMonths:              req.ROIMonths,
	}
}

func toTrainingDataResponse(s repository.Sample) transport.TrainingDataResponse {
	needs := s.SpecificNeeds
	if needs == nil {
		needs = []string{}
	}
	return transport.TrainingDataResponse{
		ID:                     s.ID,
		SiteType:               s.SiteType,
		ElectricityBill:        s.ElectricityBill,
		InstallationPower:      s.InstallationPower,
		MeasurementPoints:      s.MeasurementPoints,
		Budget:                 s.Budget,
		ZonesCount:             s.ZonesCount,
		SpecificNeeds:          needs,
		ChosenScenarioCategory: s.ChosenScenarioCategory,
		ActualSavingsPercent:   s.ActualSavingsPercent,
		ImplementationSuccess:  s.ImplementationSuccess,
		CustomerSatisfaction:   s.CustomerSatisfaction,
		ROIMonths:              s.ROIMonths,
		CreatedAt:              s.CreatedAt,
	}
}

func toModelResponse(m repository.Model) transport.ModelResponse {
	return transport.ModelResponse{
		ID:                m.ID,
		ModelVersion:      m.ModelVersion,
		Accuracy:          m.Accuracy,
		Precision:         m.Precision,
		Recall:            m.Recall,
		F1:                m.F1,
		MeanAbsoluteError: m.MeanAbsoluteError,
		TrainingSamples:   m.TrainingSamples,
		LastTrainedAt:     m.LastTrainedAt,
		IsActive:          m.IsActive,
	}
}

// questionnaire mirrors the form_data document captured with a lead.
type questionnaire struct {
	SiteType          string   `json:"siteType"`
	ElectricityBill   float64  `json:"electricityBill"`
	InstallationPower float64  `json:"installationPower"`
	MeasurementPoints int      `json:"measurementPoints"`
	Budget            float64  `json:"budget"`
	ZonesToMonitor    []string `json:"zonesToMonitor"`
	SpecificNeeds     []string `json:"specificNeeds"`
}
