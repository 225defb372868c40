package analytics

import (
	"context"
	"strings"

	"sakkanal_backend/internal/exports/csvexport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/format"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

// Overview is the dashboard headline block.
type Overview struct {
	TotalLeads     int            `json:"totalLeads"`
	ConvertedLeads int            `json:"convertedLeads"`
	ConversionRate float64        `json:"conversionRate"`
	BySource       []SourceCount  `json:"bySource"`
	ByStatus       map[string]int `json:"byStatus"`
	Visits         *VisitStats    `json:"visits,omitempty"`
}

// TrendsReport is the monthly trends page payload.
type TrendsReport struct {
	Range      Range          `json:"range"`
	Trends     []MonthlyTrend `json:"trends"`
	Prediction *Prediction    `json:"prediction,omitempty"`
	Summary    Summary        `json:"summary"`
}

type Service struct {
	store Store
	log   *logger.Logger
}

func NewService(store Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{store: store, log: log}
}

// Overview runs the aggregate queries concurrently.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var (
		out       Overview
		total     int
		converted int
		visits    VisitStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, converted, err = s.store.LeadTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.BySource, err = s.store.LeadsBySource(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.ByStatus, err = s.store.LeadsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		visits, err = s.store.VisitStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	out.TotalLeads = total
	out.ConvertedLeads = converted
	out.ConversionRate = ConversionRate(converted, total)
	if out.BySource == nil {
		out.BySource = []SourceCount{}
	}
	if out.ByStatus == nil {
		out.ByStatus = map[string]int{}
	}
	if visits.TotalVisits > 0 {
		out.Visits = &visits
	}
	return out, nil
}

// ConversionRate is converted/total as a percentage with one decimal.
func ConversionRate(converted, total int) float64 {
	if total == 0 {
		return 0
	}
	return format.Round(float64(converted)/float64(total)*100, 1)
}

// Trends returns the latest monthly buckets of the requested range with a next month prediction.
func (s *Service) Trends(ctx context.Context, r Range) (TrendsReport, error) {
	all, err := s.store.MonthlyTrends(ctx, r.Months())
	if err != nil {
		return TrendsReport{}, err
	}

	trends := Annotate(LimitRange(all, r))
	if trends == nil {
		trends = []MonthlyTrend{}
	}
	return TrendsReport{
		Range:      r,
		Trends:     trends,
		Prediction: Predict(trends),
		Summary:    Summarize(trends),
	}, nil
}

// RecordVisit stores one anonymous page view.
func (s *Service) RecordVisit(ctx context.Context, req RecordVisitRequest) error {
	path := strings.TrimSpace(req.Path)
	visitor := strings.TrimSpace(req.VisitorID)
	if path == "" || visitor == "" {
		return apperr.Validation("path et visitorId sont requis")
	}

	return s.store.RecordVisit(ctx, Visit{
		Path:      sanitize.Line(path),
		VisitorID: visitor,
		Referrer:  sanitize.LinePtr(req.Referrer),
	})
}

// ExportSummary feeds the analytics CSV export.
func (s *Service) ExportSummary(ctx context.Context) (csvexport.Analytics, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return csvexport.Analytics{}, err
	}

	out := csvexport.Analytics{
		TotalLeads:     overview.TotalLeads,
		ConvertedLeads: overview.ConvertedLeads,
		ConversionRate: overview.ConversionRate,
	}
	for _, src := range overview.BySource {
		out.Sources = append(out.Sources, csvexport.SourceCount{Source: src.Source, Count: src.Count})
	}
	if overview.Visits != nil {
		out.Visits = &csvexport.VisitStats{
			TotalVisits:    overview.Visits.TotalVisits,
			UniqueVisitors: overview.Visits.UniqueVisitors,
		}
	}
	return out, nil
}
