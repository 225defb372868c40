// Package repository persists training samples, prediction outcomes and model metrics.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sample is one completed project used to train the recommender.
type Sample struct {
	ID                     uuid.UUID
	SiteType               string
	ElectricityBill        float64
	InstallationPower      float64
	MeasurementPoints      int
	Budget                 float64
	ZonesCount             int
	SpecificNeeds          []string
	ChosenScenarioCategory *string
	ActualSavingsPercent   float64
	ImplementationSuccess  bool
	CustomerSatisfaction   *int
	ROIMonths              int
	CreatedAt              time.Time
}

// Model is one trained model version and its scores.
type Model struct {
	ID                uuid.UUID
	ModelVersion      string
	Accuracy          float64
	Precision         float64
	Recall            float64
	F1                float64
	MeanAbsoluteError float64
	TrainingSamples   int
	LastTrainedAt     time.Time
	IsActive          bool
	CreatedAt         time.Time
}

// CreateModelParams holds the scores of a freshly trained model.
type CreateModelParams struct {
	ModelVersion      string
	Accuracy          float64
	Precision         float64
	Recall            float64
	F1                float64
	MeanAbsoluteError float64
	TrainingSamples   int
	TrainedAt         time.Time
}

// PredictionOutcome pairs a stored prediction with the savings observed on site.
type PredictionOutcome struct {
	PredictedSavings *float64
	ActualSavings    float64
}

// LeadSnapshot is what project collection needs from a lead.
type LeadSnapshot struct {
	FormData         json.RawMessage
	ScenarioCategory *string
}

// ProjectOutcome is the real-world result reported for a lead's project.
type ProjectOutcome struct {
	ActualScenarioID *uuid.UUID
	SavingsPercent   float64
	Satisfaction     *int
}

// SampleReader is the read side used for statistics.
type SampleReader interface {
	ListSamples(ctx context.Context, limit int) ([]Sample, error)
	CountSamples(ctx context.Context) (int, error)
	CountSamplesSince(ctx context.Context, since time.Time) (int, error)
}

// ModelStore manages trained model versions.
type ModelStore interface {
	ActiveModel(ctx context.Context) (Model, error)
	RecentModels(ctx context.Context, limit int) ([]Model, error)
	CountModels(ctx context.Context) (int, error)
	CreateActiveModel(ctx context.Context, params CreateModelParams) (Model, error)
	ActivateModel(ctx context.Context, version string) (Model, error)
}

// TrainingRepository is the full persistence surface of the training module.
type TrainingRepository interface {
	SampleReader
	ModelStore
	InsertSample(ctx context.Context, s Sample) (Sample, error)
	RecentOutcomes(ctx context.Context, limit int) ([]PredictionOutcome, error)
	GetLeadSnapshot(ctx context.Context, leadID uuid.UUID) (LeadSnapshot, error)
	RecordProjectOutcome(ctx context.Context, leadID uuid.UUID, outcome ProjectOutcome, sample Sample) (Sample, error)
}
