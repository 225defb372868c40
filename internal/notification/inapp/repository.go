package inapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate      = "notification.inapp.repository.create"
	opList        = "notification.inapp.repository.list"
	opCountUnread = "notification.inapp.repository.count_unread"
	opMarkRead    = "notification.inapp.repository.mark_read"
	opMarkAllRead = "notification.inapp.repository.mark_all_read"
	opDelete      = "notification.inapp.repository.delete"

	errRepoNotConfigured = "in-app notification repository not configured"
	errAdminIDRequired   = "adminUserId is required"
	errNotFound          = "notification introuvable"
)

// Type classifies a notification for the back-office bell.
type Type string

const (
	TypeNewLead      Type = "new_lead"
	TypeStatusChange Type = "status_change"
	TypeInteraction  Type = "interaction"
	TypeHighValue    Type = "high_value"
	TypeUrgent       Type = "urgent"
	TypeReminder     Type = "reminder"
)

// Priority orders notifications in the bell.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Notification struct {
	ID          uuid.UUID       `json:"id"`
	AdminUserID uuid.UUID       `json:"adminUserId"`
	LeadID      *uuid.UUID      `json:"leadId,omitempty"`
	Type        Type            `json:"type"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	Priority    Priority        `json:"priority"`
	IsRead      bool            `json:"isRead"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	ReadAt      *time.Time      `json:"readAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type CreateParams struct {
	AdminUserID uuid.UUID
	LeadID      *uuid.UUID
	Type        Type
	Title       string
	Message     string
	Priority    Priority
	Metadata    map[string]any
}

type ListParams struct {
	AdminUserID uuid.UUID
	UnreadOnly  bool
	Limit       int
	Offset      int
}

// Store is the persistence surface the in-app service depends on.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Notification, error)
	List(ctx context.Context, p ListParams) ([]Notification, int, error)
	CountUnread(ctx context.Context, adminUserID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, adminUserID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, adminUserID uuid.UUID) (int64, error)
	Delete(ctx context.Context, adminUserID, notificationID uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, admin_user_id, lead_id, type, title, message, priority, is_read, metadata, read_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (Notification, error) {
	var n Notification
	var typ, priority string
	var metadata []byte
	if err := row.Scan(&n.ID, &n.AdminUserID, &n.LeadID, &typ, &n.Title, &n.Message, &priority, &n.IsRead, &metadata, &n.ReadAt, &n.CreatedAt); err != nil {
		return Notification{}, err
	}
	n.Type = Type(typ)
	n.Priority = Priority(priority)
	if len(metadata) > 0 {
		n.Metadata = json.RawMessage(metadata)
	}
	return n, nil
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Notification, error) {
	if r == nil || r.pool == nil {
		return Notification{}, apperr.Internal(errRepoNotConfigured).WithOp(opCreate)
	}
	if p.AdminUserID == uuid.Nil {
		return Notification{}, apperr.Validation(errAdminIDRequired).WithOp(opCreate)
	}
	if p.Title == "" {
		return Notification{}, apperr.Validation("title is required").WithOp(opCreate)
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}

	metadata := []byte("{}")
	if len(p.Metadata) > 0 {
		encoded, err := json.Marshal(p.Metadata)
		if err != nil {
			return Notification{}, apperr.Internal(fmt.Sprintf("marshal notification metadata failed: %v", err)).WithOp(opCreate)
		}
		metadata = encoded
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (admin_user_id, lead_id, type, title, message, priority, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+selectColumns,
		p.AdminUserID, p.LeadID, string(p.Type), p.Title, p.Message, string(p.Priority), metadata)

	n, err := scanNotification(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return Notification{}, apperr.Validation("invalid adminUserId or leadId").WithOp(opCreate)
			case "23514":
				return Notification{}, apperr.Validation("invalid notification type or priority").WithOp(opCreate)
			}
		}
		return Notification{}, apperr.Internal(fmt.Sprintf("create notification failed: %v", err)).WithOp(opCreate)
	}

	return n, nil
}

func (r *Repository) List(ctx context.Context, p ListParams) ([]Notification, int, error) {
	if r == nil || r.pool == nil {
		return nil, 0, apperr.Internal(errRepoNotConfigured).WithOp(opList)
	}
	if p.AdminUserID == uuid.Nil {
		return nil, 0, apperr.Validation(errAdminIDRequired).WithOp(opList)
	}

	where := "admin_user_id = $1"
	if p.UnreadOnly {
		where += " AND is_read = FALSE"
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+where, p.AdminUserID).Scan(&total)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("count notifications failed: %v", err)).WithOp(opList)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM notifications
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, p.AdminUserID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("list notifications query failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	items := make([]Notification, 0, p.Limit)
	for rows.Next() {
		n, scanErr := scanNotification(rows)
		if scanErr != nil {
			return nil, 0, apperr.Internal(fmt.Sprintf("scan notifications failed: %v", scanErr)).WithOp(opList)
		}
		items = append(items, n)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, apperr.Internal(fmt.Sprintf("iterate notifications failed: %v", rowsErr)).WithOp(opList)
	}

	return items, total, nil
}

func (r *Repository) CountUnread(ctx context.Context, adminUserID uuid.UUID) (int, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opCountUnread)
	}
	if adminUserID == uuid.Nil {
		return 0, apperr.Validation(errAdminIDRequired).WithOp(opCountUnread)
	}

	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE admin_user_id = $1 AND is_read = FALSE
	`, adminUserID).Scan(&count)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("count unread notifications failed: %v", err)).WithOp(opCountUnread)
	}

	return count, nil
}

func (r *Repository) MarkRead(ctx context.Context, adminUserID, notificationID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opMarkRead)
	}
	if adminUserID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation("adminUserId and notificationId are required").WithOp(opMarkRead)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, now())
		WHERE id = $1 AND admin_user_id = $2
	`, notificationID, adminUserID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("mark notification read failed: %v", err)).WithOp(opMarkRead)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(errNotFound).WithOp(opMarkRead)
	}

	return nil
}

func (r *Repository) MarkAllRead(ctx context.Context, adminUserID uuid.UUID) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, apperr.Internal(errRepoNotConfigured).WithOp(opMarkAllRead)
	}
	if adminUserID == uuid.Nil {
		return 0, apperr.Validation(errAdminIDRequired).WithOp(opMarkAllRead)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET is_read = TRUE, read_at = now()
		WHERE admin_user_id = $1 AND is_read = FALSE
	`, adminUserID)
	if err != nil {
		return 0, apperr.Internal(fmt.Sprintf("mark all notifications read failed: %v", err)).WithOp(opMarkAllRead)
	}

	return tag.RowsAffected(), nil
}

func (r *Repository) Delete(ctx context.Context, adminUserID, notificationID uuid.UUID) error {
	if r == nil || r.pool == nil {
		return apperr.Internal(errRepoNotConfigured).WithOp(opDelete)
	}
	if adminUserID == uuid.Nil || notificationID == uuid.Nil {
		return apperr.Validation("adminUserId and notificationId are required").WithOp(opDelete)
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE id = $1 AND admin_user_id = $2
	`, notificationID, adminUserID)
	if err != nil {
		return apperr.Internal(fmt.Sprintf("delete notification failed: %v", err)).WithOp(opDelete)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(errNotFound).WithOp(opDelete)
	}

	return nil
}

var _ Store = (*Repository)(nil)
