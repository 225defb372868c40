// Package service implements the model training panel.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"sakkanal_backend/internal/training/repository"
	"sakkanal_backend/internal/training/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"
)

const defaultListLimit = 200

// Service handles training data and model versions.
type Service struct {
	repo repository.TrainingRepository
	log  *logger.Logger
	now  func() time.Time
	seed func() int64
}

// New creates a new training service.
func New(repo repository.TrainingRepository, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
		seed: func() int64 { return time.Now().UnixNano() },
	}
}

// AddTrainingData stores a manually entered project outcome.
func (s *Service) AddTrainingData(ctx context.Context, req transport.AddTrainingDataRequest) (transport.TrainingDataResponse, error) {
	sample := toSampleFromRequest(req)
	if sample.SiteType == "" {
		return transport.TrainingDataResponse{}, apperr.Validation("type de site requis")
	}

	created, err := s.repo.InsertSample(ctx, sample)
	if err != nil {
		return transport.TrainingDataResponse{}, err
	}
	return toTrainingDataResponse(created), nil
}

// ListTrainingData returns samples newest first.
func (s *Service) ListTrainingData(ctx context.Context, limit int) ([]transport.TrainingDataResponse, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	samples, err := s.repo.ListSamples(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TrainingDataResponse, 0, len(samples))
	for _, sample := range samples {
		out = append(out, toTrainingDataResponse(sample))
	}
	return out, nil
}

// Stats aggregates the full training set.
func (s *Service) Stats(ctx context.Context) (transport.TrainingStatsResponse, error) {
	samples, err := s.repo.ListSamples(ctx, 0)
	if err != nil {
		return transport.TrainingStatsResponse{}, err
	}
	return ComputeStats(samples), nil
}

// ModelMetrics returns the active model, live accuracy and recent versions.
func (s *Service) ModelMetrics(ctx context.Context) (transport.ModelMetricsResponse, error) {
	active, err := s.repo.ActiveModel(ctx)
	if err != nil {
		return transport.ModelMetricsResponse{}, err
	}

	outcomes, err := s.repo.RecentOutcomes(ctx, outcomeWindow)
	if err != nil {
		return transport.ModelMetricsResponse{}, err
	}

	history, err := s.repo.RecentModels(ctx, modelHistoryLimit)
	if err != nil {
		return transport.ModelMetricsResponse{}, err
	}

	resp := transport.ModelMetricsResponse{
		ActiveModel:   toModelResponse(active),
		RealtimeStats: ComputeRealtimeStats(outcomes, s.now().UTC()),
		ModelHistory:  make([]transport.ModelResponse, 0, len(history)),
	}
	for _, m := range history {
		resp.ModelHistory = append(resp.ModelHistory, toModelResponse(m))
	}
	return resp, nil
}

// Activate makes one model version the only active one.
func (s *Service) Activate(ctx context.Context, version string) (transport.ModelResponse, error) {
	m, err := s.repo.ActivateModel(ctx, version)
	if err != nil {
		return transport.ModelResponse{}, err
	}
	s.log.Info("model activated", "version", m.ModelVersion)
	return toModelResponse(m), nil
}

// CollectProjectData feeds a finished project back into the training set.
func (s *Service) CollectProjectData(ctx context.Context, req transport.CollectProjectDataRequest) (transport.CollectProjectDataResponse, error) {
	snap, err := s.repo.GetLeadSnapshot(ctx, req.LeadID)
	if err != nil {
		return transport.CollectProjectDataResponse{}, err
	}

	var form questionnaire
	if len(snap.FormData) > 0 {
		if err := json.Unmarshal(snap.FormData, &form); err != nil {
			return transport.CollectProjectDataResponse{}, apperr.Validation("questionnaire du lead illisible")
		}
	}
	if form.SiteType == "" {
		return transport.CollectProjectDataResponse{}, apperr.Validation("questionnaire du lead incomplet")
	}

	success := true
	if req.Success != nil {
		success = *req.Success
	}

	sample := repository.Sample{
		SiteType:               form.SiteType,
		ElectricityBill:        form.ElectricityBill,
		InstallationPower:      form.InstallationPower,
		MeasurementPoints:      form.MeasurementPoints,
		Budget:                 form.Budget,
		ZonesCount:             len(form.ZonesToMonitor),
		SpecificNeeds:          form.SpecificNeeds,
		ChosenScenarioCategory: snap.ScenarioCategory,
		ActualSavingsPercent:   req.SavingsPercent,
		ImplementationSuccess:  success,
		CustomerSatisfaction:   req.Satisfaction,
		ROIMonths:              req.ROIMonths,
	}
	outcome := repository.ProjectOutcome{
		ActualScenarioID: req.ScenarioID,
		SavingsPercent:   req.SavingsPercent,
		Satisfaction:     req.Satisfaction,
	}

	created, err := s.repo.RecordProjectOutcome(ctx, req.LeadID, outcome, sample)
	if err != nil {
		return transport.CollectProjectDataResponse{}, err
	}

	recent, err := s.repo.CountSamplesSince(ctx, s.now().Add(-RetrainWindow))
	if err != nil {
		return transport.CollectProjectDataResponse{}, err
	}

	return transport.CollectProjectDataResponse{
		Sample:        toTrainingDataResponse(created),
		ShouldRetrain: recent >= RetrainThreshold,
		NewDataCount:  recent,
	}, nil
}

// Train records a new simulated model version over the current training set.
func (s *Service) Train(ctx context.Context) (transport.TrainResponse, error) {
	samples, err := s.repo.ListSamples(ctx, 0)
	if err != nil {
		return transport.TrainResponse{}, err
	}
	if len(samples) < MinTrainingSamples {
		return transport.TrainResponse{}, apperr.Validation(
			fmt.Sprintf("au moins %d échantillons sont nécessaires pour entraîner le modèle (%d disponibles)", MinTrainingSamples, len(samples)))
	}

	existing, err := s.repo.CountModels(ctx)
	if err != nil {
		return transport.TrainResponse{}, err
	}

	metrics := SimulateMetrics(rand.New(rand.NewSource(s.seed())))
	model, err := s.repo.CreateActiveModel(ctx, repository.CreateModelParams{
		ModelVersion:      NextVersion(existing),
		Accuracy:          metrics.Accuracy,
		Precision:         metrics.Precision,
		Recall:            metrics.Recall,
		F1:                metrics.F1,
		MeanAbsoluteError: metrics.MAE,
		TrainingSamples:   len(samples),
		TrainedAt:         s.now().UTC(),
	})
	if err != nil {
		return transport.TrainResponse{}, err
	}

	s.log.Info("model trained", "version", model.ModelVersion, "samples", len(samples), "accuracy", model.Accuracy)
	return transport.TrainResponse{
		Model: toModelResponse(model),
		Stats: ComputeStats(samples),
	}, nil
}
