package inapp

import (
	"context"

	"sakkanal_backend/internal/notification/sse"
	"sakkanal_backend/platform/apperr"
	"sakkanal_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Publisher pushes live events to connected admins.
type Publisher interface {
	Publish(adminID uuid.UUID, event sse.Event)
}

type Service struct {
	repo Store
	sse  Publisher
	log  *logger.Logger
}

func NewService(repo Store, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo: repo,
		log:  log,
	}
}

// SetSSE injects the live stream publisher.
func (s *Service) SetSSE(publisher Publisher) {
	s.sse = publisher
}

type SendParams struct {
	AdminUserID uuid.UUID
	LeadID      *uuid.UUID
	Type        Type
	Title       string
	Message     string
	Priority    Priority
	Metadata    map[string]any
}

// Send persists the notification and pushes it via SSE if the admin is online.
func (s *Service) Send(ctx context.Context, p SendParams) (Notification, error) {
	if s == nil || s.repo == nil {
		return Notification{}, apperr.Internal("in-app notification service not configured")
	}

	notif, err := s.repo.Create(ctx, CreateParams{
		AdminUserID: p.AdminUserID,
		LeadID:      p.LeadID,
		Type:        p.Type,
		Title:       p.Title,
		Message:     p.Message,
		Priority:    p.Priority,
		Metadata:    p.Metadata,
	})
	if err != nil {
		s.log.Error("failed to persist in-app notification", "error", err, "adminId", p.AdminUserID)
		return Notification{}, err
	}

	if s.sse != nil {
		event := sse.Event{
			Type:    sse.EventNotification,
			Message: notif.Title,
			Data:    notif,
		}
		if notif.LeadID != nil {
			event.LeadID = *notif.LeadID
		}
		s.sse.Publish(p.AdminUserID, event)
	}

	return notif, nil
}

// ListResult is one page of an admin's notifications.
type ListResult struct {
	Items       []Notification `json:"items"`
	Total       int            `json:"total"`
	UnreadCount int            `json:"unreadCount"`
	Page        int            `json:"page"`
	PageSize    int            `json:"pageSize"`
}

func (s *Service) List(ctx context.Context, adminUserID uuid.UUID, unreadOnly bool, page, pageSize int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, ListParams{
		AdminUserID: adminUserID,
		UnreadOnly:  unreadOnly,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if err != nil {
		return ListResult{}, err
	}

	unread, err := s.repo.CountUnread(ctx, adminUserID)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Items:       items,
		Total:       total,
		UnreadCount: unread,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *Service) CountUnread(ctx context.Context, adminUserID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, adminUserID)
}

func (s *Service) MarkRead(ctx context.Context, adminUserID, id uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, adminUserID, id); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, adminUserID)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, adminUserID uuid.UUID) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, adminUserID)
	if err != nil {
		return 0, err
	}
	s.pushUnreadCount(ctx, adminUserID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, adminUserID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, adminUserID, id); err != nil {
		return err
	}
	s.pushUnreadCount(ctx, adminUserID)
	return nil
}

// pushUnreadCount keeps other open tabs of the same admin in sync.
func (s *Service) pushUnreadCount(ctx context.Context, adminUserID uuid.UUID) {
	if s.sse == nil {
		return
	}
	count, err := s.repo.CountUnread(ctx, adminUserID)
	if err != nil {
		s.log.Warn("unread count refresh failed", "error", err, "adminId", adminUserID)
		return
	}
	s.sse.Publish(adminUserID, sse.Event{
		Type: sse.EventUnreadCount,
		Data: map[string]int{"count": count},
	})
}
