package service

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"sakkanal_backend/internal/training/repository"
	"sakkanal_backend/internal/training/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	samples      []repository.Sample
	models       []repository.Model
	outcomes     []repository.PredictionOutcome
	snapshot     *repository.LeadSnapshot
	recentCount  int
	since        time.Time
	listLimit    int
	recorded     *repository.ProjectOutcome
	recordedLead uuid.UUID
}

func (f *fakeRepo) InsertSample(_ context.Context, s repository.Sample) (repository.Sample, error) {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	f.samples = append(f.samples, s)
	return s, nil
}

func (f *fakeRepo) ListSamples(_ context.Context, limit int) ([]repository.Sample, error) {
	f.listLimit = limit
	return f.samples, nil
}

func (f *fakeRepo) CountSamples(context.Context) (int, error) { return len(f.samples), nil }

func (f *fakeRepo) CountSamplesSince(_ context.Context, since time.Time) (int, error) {
	f.since = since
	return f.recentCount, nil
}

func (f *fakeRepo) ActiveModel(context.Context) (repository.Model, error) {
	for _, m := range f.models {
		if m.IsActive {
			return m, nil
		}
	}
	return repository.Model{}, apperr.NotFound("aucun modèle actif")
}

func (f *fakeRepo) RecentModels(_ context.Context, limit int) ([]repository.Model, error) {
	if len(f.models) > limit {
		return f.models[:limit], nil
	}
	return f.models, nil
}

func (f *fakeRepo) CountModels(context.Context) (int, error) { return len(f.models), nil }

func (f *fakeRepo) CreateActiveModel(_ context.Context, p repository.CreateModelParams) (repository.Model, error) {
	for i := range f.models {
		f.models[i].IsActive = false
	}
	m := repository.Model{
		ID: uuid.New(), ModelVersion: p.ModelVersion, Accuracy: p.Accuracy, Precision: p.Precision,
		Recall: p.Recall, F1: p.F1, MeanAbsoluteError: p.MeanAbsoluteError,
		TrainingSamples: p.TrainingSamples, LastTrainedAt: p.TrainedAt, IsActive: true,
	}
	f.models = append(f.models, m)
	return m, nil
}

func (f *fakeRepo) ActivateModel(_ context.Context, version string) (repository.Model, error) {
	idx := -1
	for i, m := range f.models {
		if m.ModelVersion == version {
			idx = i
		}
	}
	if idx < 0 {
		return repository.Model{}, apperr.NotFound("modèle introuvable")
	}
	for i := range f.models {
		f.models[i].IsActive = i == idx
	}
	return f.models[idx], nil
}

func (f *fakeRepo) RecentOutcomes(context.Context, int) ([]repository.PredictionOutcome, error) {
	return f.outcomes, nil
}

func (f *fakeRepo) GetLeadSnapshot(context.Context, uuid.UUID) (repository.LeadSnapshot, error) {
	if f.snapshot == nil {
		return repository.LeadSnapshot{}, apperr.NotFound("lead introuvable")
	}
	return *f.snapshot, nil
}

func (f *fakeRepo) RecordProjectOutcome(ctx context.Context, leadID uuid.UUID, outcome repository.ProjectOutcome, sample repository.Sample) (repository.Sample, error) {
	f.recorded = &outcome
	f.recordedLead = leadID
	return f.InsertSample(ctx, sample)
}

func strPtr(s string) *string     { return &s }
func floatPtr(v float64) *float64 { return &v }

func sample(site, category string, savings float64, roi int) repository.Sample {
	s := repository.Sample{SiteType: site, ActualSavingsPercent: savings, ROIMonths: roi}
	if category != "" {
		s.ChosenScenarioCategory = strPtr(category)
	}
	return s
}

func TestAddTrainingDataDefaultsSuccess(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, logger.Discard())

	got, err := svc.AddTrainingData(context.Background(), transport.AddTrainingDataRequest{
		SiteType: " Hotel ", ElectricityBill: 900000, ChosenScenario: "premium", ActualSavings: 22, ROIMonths: 18,
	})
	require.NoError(t, err)
	assert.True(t, got.ImplementationSuccess)
	assert.Equal(t, "hotel", got.SiteType)
	require.NotNil(t, got.ChosenScenarioCategory)
	assert.Equal(t, "premium", *got.ChosenScenarioCategory)

	failed := false
	got, err = svc.AddTrainingData(context.Background(), transport.AddTrainingDataRequest{
		SiteType: "bureau", ElectricityBill: 1, ImplementationSuccess: &failed,
	})
	require.NoError(t, err)
	assert.False(t, got.ImplementationSuccess)
	assert.Nil(t, got.ChosenScenarioCategory)
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]repository.Sample{
		sample("hotel", "premium", 20, 24),
		sample("hotel", "premium", 30, 12),
		sample("hotel", "standard", 10, 36),
		sample("bureau", "", 15, 0),
	})

	assert.Equal(t, 4, stats.TotalSamples)
	assert.Equal(t, transport.SitePattern{Count: 3, AvgSavings: 20, MostChosen: "premium"}, stats.SitePatterns["hotel"])
	assert.Equal(t, transport.SitePattern{Count: 1, AvgSavings: 15}, stats.SitePatterns["bureau"])
	assert.Equal(t, transport.ScenarioPattern{Count: 2, AvgSavings: 25, AvgROI: 18}, stats.ScenarioPatterns["premium"])
	assert.NotContains(t, stats.ScenarioPatterns, "")
}

func TestMostChosenBreaksTiesAlphabetically(t *testing.T) {
	assert.Equal(t, "premium", mostChosen(map[string]int{"standard": 2, "premium": 2}))
	assert.Equal(t, "", mostChosen(map[string]int{}))
}

func TestComputeRealtimeStats(t *testing.T) {
	now := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

	empty := ComputeRealtimeStats(nil, now)
	assert.Equal(t, "Aucune prédiction disponible", empty.Message)
	assert.Nil(t, empty.LastUpdated)

	stats := ComputeRealtimeStats([]repository.PredictionOutcome{
		{PredictedSavings: floatPtr(20), ActualSavings: 22},
		{PredictedSavings: floatPtr(30), ActualSavings: 21},
		{PredictedSavings: nil, ActualSavings: 18},
	}, now)
	assert.Equal(t, 3, stats.TotalPredictions)
	// (2 + 9) / 3
	assert.Equal(t, 3.67, stats.AvgError)
	// one of three within 5 points
	assert.Equal(t, 33.0, stats.Accuracy)
	require.NotNil(t, stats.LastUpdated)
}

func TestModelMetricsRequiresActiveModel(t *testing.T) {
	svc := New(&fakeRepo{}, logger.Discard())

	_, err := svc.ModelMetrics(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestTrainNeedsFiveSamples(t *testing.T) {
	repo := &fakeRepo{samples: []repository.Sample{sample("hotel", "premium", 20, 24)}}
	svc := New(repo, logger.Discard())

	_, err := svc.Train(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, repo.models)
}

func TestTrainCreatesNextActiveVersion(t *testing.T) {
	repo := &fakeRepo{models: []repository.Model{{ModelVersion: "v1.0", IsActive: true}}}
	for i := 0; i < 6; i++ {
		repo.samples = append(repo.samples, sample("usine", "standard", 18, 20))
	}
	svc := New(repo, logger.Discard())
	svc.seed = func() int64 { return 42 }

	got, err := svc.Train(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2.0", got.Model.ModelVersion)
	assert.True(t, got.Model.IsActive)
	assert.Equal(t, 6, got.Model.TrainingSamples)
	assert.False(t, repo.models[0].IsActive)
	assert.Equal(t, 0, repo.listLimit)

	expected := SimulateMetrics(rand.New(rand.NewSource(42)))
	assert.Equal(t, expected.Accuracy, got.Model.Accuracy)
}

func TestSimulateMetricsBounds(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		m := SimulateMetrics(rand.New(rand.NewSource(seed)))
		assert.GreaterOrEqual(t, m.Accuracy, 0.85)
		assert.LessOrEqual(t, m.Accuracy, 0.95)
		assert.GreaterOrEqual(t, m.Precision, 0.82)
		assert.LessOrEqual(t, m.Recall, 0.90)
		assert.GreaterOrEqual(t, m.MAE, 2.0)
		assert.LessOrEqual(t, m.MAE, 4.0)
		assert.GreaterOrEqual(t, m.F1, 0.80)
		assert.LessOrEqual(t, m.F1, 0.92)
	}
}

func TestActivateUnknownVersion(t *testing.T) {
	repo := &fakeRepo{models: []repository.Model{{ModelVersion: "v1.0", IsActive: true}, {ModelVersion: "v2.0"}}}
	svc := New(repo, logger.Discard())

	_, err := svc.Activate(context.Background(), "v9.0")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got, err := svc.Activate(context.Background(), "v2.0")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.False(t, repo.models[0].IsActive)
}

func TestCollectProjectData(t *testing.T) {
	form, err := json.Marshal(map[string]any{
		"siteType":        "hotel",
		"electricityBill": 1200000,
		"zonesToMonitor":  []string{"cuisine", "chambres"},
		"specificNeeds":   []string{"ia_predictive"},
	})
	require.NoError(t, err)

	repo := &fakeRepo{
		snapshot:    &repository.LeadSnapshot{FormData: form, ScenarioCategory: strPtr("premium")},
		recentCount: 10,
	}
	svc := New(repo, logger.Discard())
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	leadID := uuid.New()
	satisfaction := 5
	got, err := svc.CollectProjectData(context.Background(), transport.CollectProjectDataRequest{
		LeadID: leadID, SavingsPercent: 27.5, Satisfaction: &satisfaction, ROIMonths: 20,
	})
	require.NoError(t, err)
	assert.True(t, got.ShouldRetrain)
	assert.Equal(t, 10, got.NewDataCount)
	assert.Equal(t, now.Add(-RetrainWindow), repo.since)

	assert.Equal(t, leadID, repo.recordedLead)
	require.NotNil(t, repo.recorded)
	assert.Equal(t, 27.5, repo.recorded.SavingsPercent)

	assert.Equal(t, 2, got.Sample.ZonesCount)
	assert.Equal(t, "hotel", got.Sample.SiteType)
	assert.True(t, got.Sample.ImplementationSuccess)
	require.NotNil(t, got.Sample.ChosenScenarioCategory)
	assert.Equal(t, "premium", *got.Sample.ChosenScenarioCategory)

	repo.recentCount = 9
	got, err = svc.CollectProjectData(context.Background(), transport.CollectProjectDataRequest{LeadID: leadID})
	require.NoError(t, err)
	assert.False(t, got.ShouldRetrain)
}

func TestCollectProjectDataUnknownLead(t *testing.T) {
	svc := New(&fakeRepo{}, logger.Discard())

	_, err := svc.CollectProjectData(context.Background(), transport.CollectProjectDataRequest{LeadID: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, "v1.0", NextVersion(0))
	assert.Equal(t, "v4.0", NextVersion(3))
}
