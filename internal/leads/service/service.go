// Package service implements lead capture and CRM management.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sakkanal_backend/internal/events"
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/scoring"
	"sakkanal_backend/internal/leads/transport"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/phone"
	"sakkanal_backend/platform/sanitize"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const defaultSource = "questionnaire"

// Service provides lead business logic.
type Service struct {
	repo   repository.LeadsRepository
	bus    events.Bus
	region string
	log    *logger.Logger
}

// New creates a new leads service.
func New(repo repository.LeadsRepository, bus events.Bus, cfg config.LeadsConfig, log *logger.Logger) *Service {
	region := phone.DefaultRegion
	if cfg != nil && cfg.GetPhoneDefaultRegion() != "" {
		region = cfg.GetPhoneDefaultRegion()
	}
	return &Service{repo: repo, bus: bus, region: region, log: log}
}

// CreateLead stores a lead captured by the public funnel and announces it.
func (s *Service) CreateLead(ctx context.Context, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	params := repository.CreateLeadParams{
		CompanyName:          sanitize.Line(req.CompanyName),
		ContactName:          sanitize.Line(req.ContactName),
		Email:                strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                phone.NormalizeE164(req.Phone, s.region),
		SiteType:             strings.ToLower(strings.TrimSpace(req.SiteType)),
		ElectricityBill:      req.ElectricityBill,
		InstallationPower:    req.InstallationPower,
		MeasurementPoints:    req.MeasurementPoints,
		Budget:               req.Budget,
		ZonesToMonitor:       cleanList(req.ZonesToMonitor),
		SpecificNeeds:        cleanList(req.SpecificNeeds),
		Source:               strings.TrimSpace(req.Source),
		ScenarioID:           req.ScenarioID,
		RecommendedScenarios: req.RecommendedScenarios,
		FormData:             req.FormData,
	}
	if params.ContactName == "" {
		return transport.CreateLeadResponse{}, apperr.Validation("le nom du contact est requis")
	}
	if params.Source == "" {
		params.Source = defaultSource
	}
	if len(params.FormData) == 0 {
		formData, err := json.Marshal(req)
		if err != nil {
			return transport.CreateLeadResponse{}, fmt.Errorf("encode form data: %w", err)
		}
		params.FormData = formData
	}

	input := scoringInput(params.ElectricityBill, params.InstallationPower, params.Budget, params.SpecificNeeds, params.ZonesToMonitor)
	result := scoring.Score(input)
	params.Score = result.Total

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return transport.CreateLeadResponse{}, apperr.Validation("scénario inconnu")
		}
		return transport.CreateLeadResponse{}, err
	}

	s.log.Info("lead created", "id", lead.ID, "score", result.Total, "priority", result.Priority.Level)

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		CompanyName:     lead.CompanyName,
		ContactName:     lead.ContactName,
		Email:           lead.Email,
		SiteType:        lead.SiteType,
		ElectricityBill: lead.ElectricityBill,
		Score:           result.Total,
		Priority:        result.Priority.Level,
		Source:          lead.Source,
	})
	if result.Priority.Level == scoring.PriorityHot {
		s.bus.Publish(ctx, events.HighValueLeadDetected{
			BaseEvent:           events.NewBaseEvent(),
			LeadID:              lead.ID,
			CompanyName:         lead.CompanyName,
			ContactName:         lead.ContactName,
			Email:               lead.Email,
			Phone:               lead.Phone,
			Score:               result.Total,
			ElectricityBill:     lead.ElectricityBill,
			CommercialPotential: scoring.CommercialPotential(input),
		})
	}

	return transport.CreateLeadResponse{ID: lead.ID, Score: result.Total, Priority: result.Priority}, nil
}

// List returns a page of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Status:    req.Status,
		SiteType:  strings.ToLower(strings.TrimSpace(req.SiteType)),
		Search:    strings.TrimSpace(req.Search),
		MinScore:  req.MinScore,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}
	totalPages := (total + pageSize - 1) / pageSize

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Get returns the lead sheet with history, score breakdown and insights.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}
	interactions, err := s.repo.ListInteractions(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	input := leadScoringInput(lead)
	result := scoring.Score(input)

	history := make([]transport.InteractionResponse, 0, len(interactions))
	for _, item := range interactions {
		history = append(history, toInteractionResponse(item))
	}

	return transport.LeadDetailResponse{
		Lead:                ToLeadResponse(lead),
		Interactions:        history,
		Score:               result,
		Needs:               scoring.AnalyzeNeeds(input, result.Total),
		Insights:            scoring.Insights(input),
		CommercialPotential: scoring.CommercialPotential(input),
	}, nil
}

// UpdateStatus changes the pipeline status and records a status_change interaction.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if current.Status == req.Status {
		return ToLeadResponse(current), nil
	}

	notes := sanitize.Text(req.Notes)
	if notes == "" {
		notes = fmt.Sprintf("Statut modifié: %s → %s", current.Status, req.Status)
	}

	lead, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:          id,
		Status:      req.Status,
		Notes:       notes,
		AdminUserID: &actorID,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead status changed", "id", id, "from", current.Status, "to", lead.Status)
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		CompanyName: lead.CompanyName,
		ContactName: lead.ContactName,
		OldStatus:   current.Status,
		NewStatus:   lead.Status,
		ActorID:     actorID,
	})

	return ToLeadResponse(lead), nil
}

// AddInteraction logs a call, email, meeting or note on a lead.
func (s *Service) AddInteraction(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.AddInteractionRequest) (transport.InteractionResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.InteractionResponse{}, err
	}

	notes := sanitize.Text(req.Notes)
	if notes == "" {
		return transport.InteractionResponse{}, apperr.Validation("les notes sont requises")
	}

	item, err := s.repo.CreateInteraction(ctx, repository.CreateInteractionParams{
		LeadID:          id,
		InteractionType: req.Type,
		Notes:           notes,
		AdminUserID:     &actorID,
	})
	if err != nil {
		return transport.InteractionResponse{}, err
	}

	s.log.Info("interaction added", "id", item.ID, "leadId", id, "type", item.InteractionType)
	s.bus.Publish(ctx, events.LeadInteractionAdded{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          id,
		InteractionID:   item.ID,
		InteractionType: item.InteractionType,
		Notes:           item.Notes,
		CompanyName:     lead.CompanyName,
		ContactName:     lead.ContactName,
		ActorID:         actorID,
	})

	return toInteractionResponse(item), nil
}

// Subscribe logs report downloads on the lead timeline.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.ReportGenerated{}.EventName(), events.HandlerFunc(s.recordReport))
}

func (s *Service) recordReport(ctx context.Context, e events.Event) error {
	report, ok := e.(events.ReportGenerated)
	if !ok || report.LeadID == nil {
		return nil
	}
	if _, err := s.repo.GetByID(ctx, *report.LeadID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}

	_, err := s.repo.CreateInteraction(ctx, repository.CreateInteractionParams{
		LeadID:          *report.LeadID,
		InteractionType: "email",
		Notes:           fmt.Sprintf("Rapport énergétique « %s » généré pour %s", report.ScenarioName, report.Email),
	})
	return err
}

// ListInteractions returns the contact history of a lead.
func (s *Service) ListInteractions(ctx context.Context, id uuid.UUID) ([]transport.InteractionResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.repo.ListInteractions(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]transport.InteractionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toInteractionResponse(item))
	}
	return out, nil
}

// Delete removes a lead and its interactions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("lead deleted", "id", id)
	return nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = sanitize.Line(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
