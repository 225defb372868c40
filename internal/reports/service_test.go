package reports

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"sakkanal_backend/internal/adapters/storage"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/recommendation/engine"
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

func (f fakeScenarios) GetScenariosByIDs(_ context.Context, ids []uuid.UUID) ([]engine.Scenario, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []engine.Scenario
	for _, sc := range f.items {
		for _, id := range ids {
			if sc.ID == id {
				out = append(out, sc)
			}
		}
	}
	return out, nil
}

type fakeStore struct {
	inserted  []InsertParams
	err       error
	lastLimit int
}

func (f *fakeStore) Insert(_ context.Context, p InsertParams) (Record, error) {
	if f.err != nil {
		return Record{}, f.err
	}
	f.inserted = append(f.inserted, p)
	return Record{ID: uuid.New(), ScenarioID: &p.ScenarioID, Email: p.Email, FileName: p.FileName, FileKey: p.FileKey}, nil
}

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]Record, error) {
	f.lastLimit = limit
	return nil, nil
}

type fakeConverter struct {
	html []byte
	err  error
}

func (f *fakeConverter) ConvertHTML(_ context.Context, html []byte, _ ConvertOpts) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 report"), nil
}

type fakeObjects struct {
	uploadErr error
	bucket    string
	folder    string
	body      []byte
}

func (f *fakeObjects) UploadFile(_ context.Context, bucket, folder, fileName, _ string, r io.Reader, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.bucket, f.folder = bucket, folder
	f.body, _ = io.ReadAll(r)
	return folder + "/abcd1234/" + fileName, nil
}

func (f *fakeObjects) GenerateDownloadURL(_ context.Context, _, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://files.sakkanal.sn/" + fileKey, FileKey: fileKey, ExpiresAt: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)}, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(sc engine.Scenario) (*Service, *fakeStore, *recordingBus) {
	store := &fakeStore{}
	bus := &recordingBus{}
	svc := NewService(fakeScenarios{items: []engine.Scenario{sc}}, store, bus, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc, store, bus
}

func validInput(scenarioID uuid.UUID) Input {
	return Input{
		ScenarioID: scenarioID,
		FullName:   " Fatou Diop ",
		Email:      "Fatou@Teranga.SN",
		Questionnaire: engine.Questionnaire{
			SiteType:        "hotel",
			ElectricityBill: 800000,
		},
	}
}

func TestGenerateRequiresNameAndEmail(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)

	in := validInput(sc.ID)
	in.Email = "  "
	_, err := svc.Generate(context.Background(), in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGenerateUnknownScenario(t *testing.T) {
	svc, _, _ := newTestService(performanceScenario())

	_, err := svc.Generate(context.Background(), validInput(uuid.New()))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateWithoutConverterReturnsHTML(t *testing.T) {
	sc := performanceScenario()
	svc, store, bus := newTestService(sc)

	result, err := svc.Generate(context.Background(), validInput(sc.ID))
	require.NoError(t, err)
	assert.Equal(t, ContentTypeHTML, result.ContentType)
	assert.Contains(t, string(result.Content), "RAPPORT ÉNERGÉTIQUE")
	assert.Equal(t, "Rapport_Sakkanal_Sakkanal_Performance_1741944600000.html", result.FileName)
	assert.False(t, result.Stored())

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "fatou@teranga.sn", store.inserted[0].Email)
	assert.Nil(t, store.inserted[0].FileKey)

	require.Len(t, bus.events, 1)
	evt, ok := bus.events[0].(events.ReportGenerated)
	require.True(t, ok)
	assert.Equal(t, "Fatou Diop", evt.FullName)
	assert.Equal(t, result.ReportID, evt.ReportID)
	assert.Equal(t, fixedNow, evt.GeneratedAt)
}

func TestGenerateStreamsPDFWithoutStorage(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)
	conv := &fakeConverter{}
	svc.SetConverter(conv)

	result, err := svc.Generate(context.Background(), validInput(sc.ID))
	require.NoError(t, err)
	assert.Equal(t, ContentTypePDF, result.ContentType)
	assert.Equal(t, "%PDF-1.7 report", string(result.Content))
	assert.Contains(t, string(conv.html), "ÉCONOMIES ESTIMÉES")
	assert.Equal(t, 200000.0, result.Savings.Monthly)
}

func TestGenerateUploadsPDFWhenStorageConfigured(t *testing.T) {
	sc := performanceScenario()
	svc, store, _ := newTestService(sc)
	svc.SetConverter(&fakeConverter{})
	objects := &fakeObjects{}
	svc.SetObjectStore(objects, "sakkanal-reports")

	result, err := svc.Generate(context.Background(), validInput(sc.ID))
	require.NoError(t, err)
	assert.True(t, result.Stored())
	assert.Empty(t, result.Content)
	assert.Equal(t, "sakkanal-reports", objects.bucket)
	assert.Equal(t, "reports/2025/03", objects.folder)
	assert.Equal(t, "%PDF-1.7 report", string(objects.body))
	assert.Contains(t, result.DownloadURL, result.FileName)

	require.Len(t, store.inserted, 1)
	require.NotNil(t, store.inserted[0].FileKey)
	assert.Contains(t, *store.inserted[0].FileKey, "reports/2025/03/")
}

func TestGenerateFallsBackToStreamingWhenUploadFails(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)
	svc.SetConverter(&fakeConverter{})
	svc.SetObjectStore(&fakeObjects{uploadErr: errors.New("bucket missing")}, "reports")

	result, err := svc.Generate(context.Background(), validInput(sc.ID))
	require.NoError(t, err)
	assert.False(t, result.Stored())
	assert.Equal(t, "%PDF-1.7 report", string(result.Content))
}

func TestGenerateConverterFailureIsUnavailable(t *testing.T) {
	sc := performanceScenario()
	svc, store, bus := newTestService(sc)
	svc.SetConverter(&fakeConverter{err: errors.New("timeout")})

	_, err := svc.Generate(context.Background(), validInput(sc.ID))
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	assert.Empty(t, store.inserted)
	assert.Empty(t, bus.events)
}

func TestGenerateStoreFailureStillDelivers(t *testing.T) {
	sc := performanceScenario()
	svc, store, bus := newTestService(sc)
	store.err = errors.New("db down")

	result, err := svc.Generate(context.Background(), validInput(sc.ID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ReportID)
	assert.Len(t, bus.events, 1)
}

func TestListRecentDefaultsLimit(t *testing.T) {
	svc, store, _ := newTestService(engine.Scenario{ID: uuid.New()})

	items, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, 50, store.lastLimit)

	_, err = svc.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, store.lastLimit)
}
