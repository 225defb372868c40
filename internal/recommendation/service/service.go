// Package service ranks catalog scenarios for questionnaire answers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sakkanal_backend/internal/recommendation/engine"
	"sakkanal_backend/internal/recommendation/ports"
	"sakkanal_backend/internal/recommendation/repository"
	"sakkanal_backend/internal/recommendation/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

// Service provides recommendation business logic.
type Service struct {
	scenarios ports.ScenarioReader
	repo      repository.Repository
	log       *logger.Logger
}

// New creates a new recommendation service.
func New(scenarios ports.ScenarioReader, repo repository.Repository, log *logger.Logger) *Service {
	return &Service{scenarios: scenarios, repo: repo, log: log}
}

// Recommend ranks the catalog with the history-weighted prediction and falls
// back to the matching heuristic when the prediction cannot run.
func (s *Service) Recommend(ctx context.Context, q engine.Questionnaire, leadID *uuid.UUID) (transport.RecommendResponse, error) {
	q, err := normalize(q)
	if err != nil {
		return transport.RecommendResponse{}, err
	}

	scenarios, err := s.scenarios.ListScenarios(ctx)
	if err != nil {
		return transport.RecommendResponse{}, fmt.Errorf("list scenarios: %w", err)
	}

	result, err := s.Predict(ctx, q, scenarios, leadID)
	if err != nil {
		s.log.Warn("prediction failed, falling back to matching", "error", err)
		return matchResponse(engine.MatchScenarios(q, scenarios)), nil
	}
	return predictionResponse(result), nil
}

// Predict runs the history-weighted model and stores the best prediction.
// A storage failure is logged and does not fail the prediction.
func (s *Service) Predict(ctx context.Context, q engine.Questionnaire, scenarios []engine.Scenario, leadID *uuid.UUID) (engine.PredictionResult, error) {
	if len(scenarios) == 0 {
		return engine.Predict(q, nil, nil), nil
	}

	history, err := s.repo.ListHistory(ctx, repository.HistoryQuery{
		SiteType: q.SiteType,
		BillMin:  q.ElectricityBill * engine.HistoryBillLow,
		BillMax:  q.ElectricityBill * engine.HistoryBillHigh,
		Limit:    engine.HistoryLimit,
	})
	if err != nil {
		return engine.PredictionResult{}, fmt.Errorf("load history: %w", err)
	}

	result := engine.Predict(q, scenarios, history)
	if len(result.Scenarios) > 0 {
		s.storePrediction(ctx, q, result.Scenarios[0], leadID)
	}
	return result, nil
}

func (s *Service) storePrediction(ctx context.Context, q engine.Questionnaire, best engine.Prediction, leadID *uuid.UUID) {
	input, err := json.Marshal(q)
	if err != nil {
		s.log.Error("failed to encode prediction input", "error", err)
		return
	}

	id, err := s.repo.CreatePrediction(ctx, repository.CreatePredictionParams{
		LeadID:              leadID,
		InputData:           input,
		PredictedScenarioID: best.Scenario.ID,
		PredictedSavings:    best.CalculatedSavings,
		PredictedROIMonths:  best.CalculatedROI,
		ConfidenceScore:     float64(best.Score) / 100,
	})
	if err != nil {
		s.log.Error("failed to store prediction", "error", err)
		return
	}
	s.log.Info("prediction stored", "id", id, "scenarioId", best.Scenario.ID, "score", best.Score)
}

// Compare computes comparison metrics for the given scenarios, or for the whole
// catalog when ids is empty.
func (s *Service) Compare(ctx context.Context, q engine.Questionnaire, ids []uuid.UUID) (transport.CompareResponse, error) {
	q, err := normalize(q)
	if err != nil {
		return transport.CompareResponse{}, err
	}

	var scenarios []engine.Scenario
	if len(ids) == 0 {
		scenarios, err = s.scenarios.ListScenarios(ctx)
	} else {
		if len(ids) < 2 || len(ids) > 3 {
			return transport.CompareResponse{}, apperr.Validation("sélectionnez 2 ou 3 scénarios à comparer")
		}
		scenarios, err = s.scenarios.GetScenariosByIDs(ctx, ids)
	}
	if err != nil {
		return transport.CompareResponse{}, fmt.Errorf("load scenarios: %w", err)
	}
	if len(ids) > 0 && len(scenarios) != len(ids) {
		return transport.CompareResponse{}, apperr.NotFound("scénario introuvable")
	}

	return engine.Compare(q, scenarios), nil
}

func normalize(q engine.Questionnaire) (engine.Questionnaire, error) {
	q.SiteType = strings.ToLower(strings.TrimSpace(q.SiteType))
	if q.SiteType == "" {
		return q, apperr.Validation("le type de site est requis")
	}
	if q.ElectricityBill <= 0 {
		return q, apperr.Validation("la facture d'électricité doit être positive")
	}
	if q.InstallationPower < 0 || q.MeasurementPoints < 0 || q.Budget < 0 {
		return q, apperr.Validation("les valeurs numériques ne peuvent pas être négatives")
	}
	q.ZonesToMonitor = trimAll(q.ZonesToMonitor)
	q.SpecificNeeds = trimAll(q.SpecificNeeds)
	return q, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func predictionResponse(result engine.PredictionResult) transport.RecommendResponse {
	items := make([]transport.RecommendedScenario, 0, len(result.Scenarios))
	for _, p := range result.Scenarios {
		savings := p.CalculatedSavings
		roi := p.CalculatedROI
		items = append(items, transport.RecommendedScenario{
			Scenario:          p.Scenario,
			Score:             p.Score,
			MatchReason:       strings.Join(p.MatchReasons, ", "),
			MatchReasons:      p.MatchReasons,
			CalculatedSavings: &savings,
			CalculatedROI:     &roi,
			MonthlySavings:    p.MonthlySavings,
			AnnualSavings:     p.AnnualSavings,
		})
	}
	advice := result.Advice
	if advice == nil {
		advice = []engine.Advice{}
	}
	return transport.RecommendResponse{Mode: transport.ModePrediction, Scenarios: items, Advice: advice}
}

func matchResponse(matches []engine.Match) transport.RecommendResponse {
	items := make([]transport.RecommendedScenario, 0, len(matches))
	for _, m := range matches {
		items = append(items, transport.RecommendedScenario{
			Scenario:       m.Scenario,
			Score:          m.Score,
			MatchReason:    m.MatchReason,
			MatchReasons:   m.Reasons,
			MonthlySavings: m.MonthlySavings,
			AnnualSavings:  m.AnnualSavings,
		})
	}
	return transport.RecommendResponse{Mode: transport.ModeMatch, Scenarios: items, Advice: []engine.Advice{}}
}
