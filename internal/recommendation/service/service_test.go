package service

import (
	"context"
	"errors"
	"testing"

	"sakkanal_backend/internal/recommendation/engine"
	"sakkanal_backend/internal/recommendation/repository"
	"sakkanal_backend/internal/recommendation/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScenarios struct {
	items []engine.Scenario
	err   error
}

func (f *fakeScenarios) ListScenarios(context.Context) ([]engine.Scenario, error) {
	return f.items, f.err
}

func (f *fakeScenarios) GetScenariosByIDs(_ context.Context, ids []uuid.UUID) ([]engine.Scenario, error) {
	out := make([]engine.Scenario, 0, len(ids))
	for _, sc := range f.items {
		for _, id := range ids {
			if sc.ID == id {
				out = append(out, sc)
			}
		}
	}
	return out, f.err
}

type fakeRepo struct {
	history    []engine.TrainingSample
	historyErr error
	createErr  error
	query      repository.HistoryQuery
	created    []repository.CreatePredictionParams
}

func (f *fakeRepo) ListHistory(_ context.Context, q repository.HistoryQuery) ([]engine.TrainingSample, error) {
	f.query = q
	return f.history, f.historyErr
}

func (f *fakeRepo) CreatePrediction(_ context.Context, p repository.CreatePredictionParams) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, p)
	return uuid.New(), nil
}

func scenarios() []engine.Scenario {
	maxBudget := 4_000_000.0
	return []engine.Scenario{
		{ID: uuid.New(), Name: "Essentiel", Category: engine.CategoryEconomique, SiteTypes: []string{"bureau"}, MinBudget: 1_500_000, MaxBudget: &maxBudget, EstimatedSavings: 15},
		{ID: uuid.New(), Name: "Intelligence", Category: engine.CategoryPremium, SiteTypes: []string{"usine"}, MinBudget: 10_000_000, EstimatedSavings: 35},
	}
}

func TestRecommendUsesPredictionAndStoresBest(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(&fakeScenarios{items: scenarios()}, repo, logger.Discard())
	leadID := uuid.New()

	resp, err := svc.Recommend(context.Background(), engine.Questionnaire{SiteType: "  Bureau ", ElectricityBill: 100_000}, &leadID)
	require.NoError(t, err)

	assert.Equal(t, transport.ModePrediction, resp.Mode)
	require.Len(t, resp.Scenarios, 2)
	assert.Equal(t, "Essentiel", resp.Scenarios[0].Scenario.Name)
	require.NotNil(t, resp.Scenarios[0].CalculatedSavings)
	assert.NotNil(t, resp.Advice)

	assert.Equal(t, "bureau", repo.query.SiteType)
	assert.InDelta(t, 70_000, repo.query.BillMin, 1e-6)
	assert.InDelta(t, 130_000, repo.query.BillMax, 1e-6)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	assert.Equal(t, &leadID, stored.LeadID)
	assert.Equal(t, resp.Scenarios[0].Scenario.ID, stored.PredictedScenarioID)
	assert.InDelta(t, float64(resp.Scenarios[0].Score)/100, stored.ConfidenceScore, 1e-9)
	assert.Contains(t, string(stored.InputData), `"siteType":"bureau"`)
}

func TestRecommendFallsBackToMatch(t *testing.T) {
	repo := &fakeRepo{historyErr: errors.New("connection refused")}
	svc := New(&fakeScenarios{items: scenarios()}, repo, logger.Discard())

	resp, err := svc.Recommend(context.Background(), engine.Questionnaire{SiteType: "usine", ElectricityBill: 600_000}, nil)
	require.NoError(t, err)

	assert.Equal(t, transport.ModeMatch, resp.Mode)
	require.NotEmpty(t, resp.Scenarios)
	assert.Equal(t, "Intelligence", resp.Scenarios[0].Scenario.Name)
	assert.Nil(t, resp.Scenarios[0].CalculatedROI)
	assert.Empty(t, repo.created)
}

func TestRecommendStorageFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("insert failed")}
	svc := New(&fakeScenarios{items: scenarios()}, repo, logger.Discard())

	resp, err := svc.Recommend(context.Background(), engine.Questionnaire{SiteType: "usine", ElectricityBill: 600_000}, nil)
	require.NoError(t, err)
	assert.Equal(t, transport.ModePrediction, resp.Mode)
}

func TestRecommendEmptyCatalogStoresNothing(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(&fakeScenarios{}, repo, logger.Discard())

	resp, err := svc.Recommend(context.Background(), engine.Questionnaire{SiteType: "usine", ElectricityBill: 600_000}, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Scenarios)
	assert.Empty(t, repo.created)
}

func TestRecommendRejectsInvalidQuestionnaire(t *testing.T) {
	svc := New(&fakeScenarios{items: scenarios()}, &fakeRepo{}, logger.Discard())

	_, err := svc.Recommend(context.Background(), engine.Questionnaire{SiteType: "bureau"}, nil)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Recommend(context.Background(), engine.Questionnaire{ElectricityBill: 10}, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCompare(t *testing.T) {
	items := scenarios()
	svc := New(&fakeScenarios{items: items}, &fakeRepo{}, logger.Discard())
	q := engine.Questionnaire{SiteType: "usine", ElectricityBill: 600_000}

	all, err := svc.Compare(context.Background(), q, nil)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	picked, err := svc.Compare(context.Background(), q, []uuid.UUID{items[0].ID, items[1].ID})
	require.NoError(t, err)
	assert.Len(t, picked.Items, 2)

	_, err = svc.Compare(context.Background(), q, []uuid.UUID{items[0].ID})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Compare(context.Background(), q, []uuid.UUID{items[0].ID, uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
