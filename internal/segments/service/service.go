package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sakkanal_backend/internal/exports/csvexport"
	"sakkanal_backend/internal/segments/repository"
	"sakkanal_backend/internal/segments/transport"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/sanitize"
)

// exportLimit caps the member rows of a single export.
const exportLimit = 10000

// Service provides business logic for segments.
type Service struct {
	repo repository.SegmentsRepository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new segments service.
func New(repo repository.SegmentsRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Create stores a new segment.
func (s *Service) Create(ctx context.Context, req transport.CreateSegmentRequest) (transport.SegmentResponse, error) {
	segment, err := s.repo.Create(ctx, repository.CreateParams{
		Name:        sanitize.Line(req.Name),
		Description: sanitize.Text(req.Description),
		Criteria:    toCriteria(req.Criteria),
	})
	if err != nil {
		return transport.SegmentResponse{}, err
	}

	s.log.Info("segment created", "id", segment.ID, "name", segment.Name)
	return s.withCount(ctx, segment)
}

// Get returns a segment with its current lead count.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.SegmentResponse, error) {
	segment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SegmentResponse{}, err
	}
	return s.withCount(ctx, segment)
}

// List returns every segment with its current lead count.
func (s *Service) List(ctx context.Context) ([]transport.SegmentResponse, error) {
	segments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]transport.SegmentResponse, 0, len(segments))
	for _, segment := range segments {
		item, err := s.withCount(ctx, segment)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateSegmentRequest) (transport.SegmentResponse, error) {
	params := repository.UpdateParams{ID: id}
	if req.Name != nil {
		name := sanitize.Line(*req.Name)
		params.Name = &name
	}
	if req.Description != nil {
		description := sanitize.Text(*req.Description)
		params.Description = &description
	}
	if req.Criteria != nil {
		criteria := toCriteria(*req.Criteria)
		params.Criteria = &criteria
	}

	segment, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.SegmentResponse{}, err
	}

	s.log.Info("segment updated", "id", segment.ID)
	return s.withCount(ctx, segment)
}

// Delete removes a segment. Its leads are untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("segment deleted", "id", id)
	return nil
}

// CountLeads counts the leads currently matching the segment.
func (s *Service) CountLeads(ctx context.Context, id uuid.UUID) (int, error) {
	segment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.repo.CountLeads(ctx, segment.Criteria, s.now())
}

// ListLeads returns a page of the segment members, best scores first.
func (s *Service) ListLeads(ctx context.Context, id uuid.UUID, req transport.ListMembersRequest) (transport.MemberListResponse, error) {
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

	segment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.MemberListResponse{}, err
	}

	now := s.now()
	total, err := s.repo.CountLeads(ctx, segment.Criteria, now)
	if err != nil {
		return transport.MemberListResponse{}, err
	}
	members, err := s.repo.ListLeads(ctx, segment.Criteria, now, (page-1)*pageSize, pageSize)
	if err != nil {
		return transport.MemberListResponse{}, err
	}

	items := make([]transport.MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.MemberListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Export builds the CSV rows of a segment: the summary row by default, or
// the member lead rows when members is set. The returned name prefixes the file.
func (s *Service) Export(ctx context.Context, id uuid.UUID, req transport.ExportRequest) (string, []csvexport.Row, error) {
	segment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	members, err := s.repo.ListLeads(ctx, segment.Criteria, s.now(), 0, exportLimit)
	if err != nil {
		return "", nil, err
	}

	name := "segment_" + fileSlug(segment.Name)
	if req.Members {
		leads := make([]csvexport.Lead, 0, len(members))
		for _, m := range members {
			leads = append(leads, toExportLead(m))
		}
		if req.Analytics {
			return name + "_leads", csvexport.LeadRowsWithAnalytics(leads, false), nil
		}
		return name + "_leads", csvexport.LeadRows(leads), nil
	}

	summary := make([]csvexport.SegmentMember, 0, len(members))
	for _, m := range members {
		summary = append(summary, csvexport.SegmentMember{
			Status:          m.Status,
			Budget:          m.Budget,
			ElectricityBill: m.ElectricityBill,
		})
	}
	row := csvexport.SegmentSummaryRow(csvexport.Segment{Name: segment.Name, Description: segment.Description}, summary)
	return name, []csvexport.Row{row}, nil
}

func (s *Service) withCount(ctx context.Context, segment repository.Segment) (transport.SegmentResponse, error) {
	count, err := s.repo.CountLeads(ctx, segment.Criteria, s.now())
	if err != nil {
		return transport.SegmentResponse{}, err
	}
	return toSegmentResponse(segment, count), nil
}

func fileSlug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return "sans_nom"
	}
	return strings.Join(fields, "_")
}
