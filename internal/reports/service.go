package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sakkanal_backend/internal/adapters/storage"
	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/recommendation/engine"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"

	defaultListLimit = 50
)

// ScenarioReader loads catalog scenarios.
type ScenarioReader interface {
	GetScenariosByIDs(ctx context.Context, ids []uuid.UUID) ([]engine.Scenario, error)
}

// Converter turns an HTML document into a PDF.
type Converter interface {
	ConvertHTML(ctx context.Context, indexHTML []byte, opts ConvertOpts) ([]byte, error)
}

// ObjectStore keeps generated PDFs and hands out download links.
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
}

// Input carries the data printed in a report.
type Input struct {
	ScenarioID    uuid.UUID
	LeadID        *uuid.UUID
	FullName      string
	Email         string
	Company       string
	Phone         string
	Questionnaire engine.Questionnaire
}

// Result is a generated report. Content is empty when the PDF was stored and
// DownloadURL is set instead.
type Result struct {
	ReportID    uuid.UUID
	FileName    string
	ContentType string
	Content     []byte
	DownloadURL string
	ExpiresAt   time.Time
	Savings     Savings
}

// Stored reports whether the report is served through a download link.
func (r Result) Stored() bool {
	return r.DownloadURL != ""
}

type Service struct {
	scenarios ScenarioReader
	store     Store
	converter Converter
	objects   ObjectStore
	bucket    string
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
}

func NewService(scenarios ScenarioReader, store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		scenarios: scenarios,
		store:     store,
		bus:       bus,
		log:       log,
		now:       time.Now,
	}
}

// SetConverter enables PDF rendering. Without it reports are returned as HTML.
func (s *Service) SetConverter(c Converter) {
	s.converter = c
}

// SetObjectStore enables uploading PDFs to bucket.
func (s *Service) SetObjectStore(objects ObjectStore, bucket string) {
	s.objects = objects
	s.bucket = bucket
}

// Generate renders the report of in.ScenarioID for the prospect.
func (s *Service) Generate(ctx context.Context, in Input) (Result, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" || in.Email == "" {
		return Result{}, apperr.Validation("le nom complet et l'email sont requis")
	}

	found, err := s.scenarios.GetScenariosByIDs(ctx, []uuid.UUID{in.ScenarioID})
	if err != nil {
		return Result{}, err
	}
	if len(found) == 0 {
		return Result{}, apperr.NotFound("scénario introuvable")
	}
	scenario := found[0]

	now := s.now()
	html, err := RenderHTML(in, scenario, now)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindInternal, "génération du rapport impossible", err)
	}

	result := Result{
		FileName: FileName(scenario.Name, now),
		Savings:  ComputeSavings(in.Questionnaire.ElectricityBill, scenario),
	}

	if s.converter == nil {
		result.FileName = strings.TrimSuffix(result.FileName, ".pdf") + ".html"
		result.ContentType = ContentTypeHTML
		result.Content = html
		s.record(ctx, &result, in, scenario, nil, now)
		return result, nil
	}

	pdf, err := s.converter.ConvertHTML(ctx, html, ReportOpts())
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindUnavailable, "le service de génération PDF est indisponible", err)
	}
	result.ContentType = ContentTypePDF

	fileKey := s.upload(ctx, &result, pdf, now)
	if fileKey == nil {
		result.Content = pdf
	}
	s.record(ctx, &result, in, scenario, fileKey, now)
	return result, nil
}

// upload stores the PDF and sets the download link. A storage failure falls
// back to streaming the bytes.
func (s *Service) upload(ctx context.Context, result *Result, pdf []byte, now time.Time) *string {
	if s.objects == nil {
		return nil
	}
	folder := fmt.Sprintf("reports/%s", now.Format("2006/01"))
	key, err := s.objects.UploadFile(ctx, s.bucket, folder, result.FileName, ContentTypePDF, bytes.NewReader(pdf), int64(len(pdf)))
	if err != nil {
		s.log.Warn("report upload failed, streaming instead", "file", result.FileName, "error", err)
		return nil
	}
	link, err := s.objects.GenerateDownloadURL(ctx, s.bucket, key)
	if err != nil {
		s.log.Warn("report presign failed, streaming instead", "key", key, "error", err)
		return nil
	}
	result.DownloadURL = link.URL
	result.ExpiresAt = link.ExpiresAt
	return &key
}

// record stores the report row and publishes ReportGenerated. Neither step
// blocks delivery of the report.
func (s *Service) record(ctx context.Context, result *Result, in Input, sc engine.Scenario, fileKey *string, now time.Time) {
	result.ReportID = uuid.New()
	if s.store != nil {
		rec, err := s.store.Insert(ctx, InsertParams{
			LeadID:     in.LeadID,
			ScenarioID: sc.ID,
			Email:      in.Email,
			FileName:   result.FileName,
			FileKey:    fileKey,
		})
		if err != nil {
			s.log.Error("failed to record generated report", "scenario", sc.ID, "error", err)
		} else {
			result.ReportID = rec.ID
		}
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.ReportGenerated{
			BaseEvent:    events.NewBaseEvent(),
			ReportID:     result.ReportID,
			LeadID:       in.LeadID,
			ScenarioID:   sc.ID,
			ScenarioName: sc.Name,
			FullName:     in.FullName,
			Email:        in.Email,
			GeneratedAt:  now,
		})
	}
}

// ListRecent returns the latest generated reports.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if s.store == nil {
		return []Record{}, nil
	}
	items, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Record{}
	}
	return items, nil
}
