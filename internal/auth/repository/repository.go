package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sakkanal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adminNotFoundMessage = "admin not found"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const adminColumns = `id, email, password_hash, full_name, is_active, last_login_at, created_at, updated_at`

func scanAdmin(row pgx.Row) (Admin, error) {
	var admin Admin
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.FullName,
		&admin.IsActive,
		&admin.LastLoginAt,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

func (r *Repository) CreateAdmin(ctx context.Context, email, passwordHash, fullName string) (Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, `
		INSERT INTO admin_users (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING `+adminColumns, strings.ToLower(email), passwordHash, fullName))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Admin{}, apperr.Conflict("admin already exists")
		}
		return Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (r *Repository) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, `
		SELECT `+adminColumns+`
		FROM admin_users
		WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, apperr.NotFound(adminNotFoundMessage)
		}
		return Admin{}, fmt.Errorf("get admin by email: %w", err)
	}
	return admin, nil
}

func (r *Repository) GetAdminByID(ctx context.Context, adminID uuid.UUID) (Admin, error) {
	admin, err := scanAdmin(r.pool.QueryRow(ctx, `
		SELECT `+adminColumns+`
		FROM admin_users
		WHERE id = $1`, adminID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, apperr.NotFound(adminNotFoundMessage)
		}
		return Admin{}, fmt.Errorf("get admin by id: %w", err)
	}
	return admin, nil
}

func (r *Repository) ListActiveAdmins(ctx context.Context) ([]Admin, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+adminColumns+`
		FROM admin_users
		WHERE is_active = true
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active admins: %w", err)
	}
	defer rows.Close()

	admins := make([]Admin, 0)
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, admin)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate admins: %w", rows.Err())
	}
	return admins, nil
}

func (r *Repository) CountAdmins(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return total, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, adminID uuid.UUID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE admin_users
		SET password_hash = $2, updated_at = now()
		WHERE id = $1`, adminID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(adminNotFoundMessage)
	}
	return nil
}

func (r *Repository) TouchLastLogin(ctx context.Context, adminID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login_at = now() WHERE id = $1`, adminID); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *Repository) CreateRefreshToken(ctx context.Context, adminID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_refresh_tokens (admin_user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)`, adminID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (r *Repository) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	var adminID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT admin_user_id, expires_at
		FROM admin_refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash).Scan(&adminID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.UUID{}, time.Time{}, apperr.NotFound("refresh token not found")
		}
		return uuid.UUID{}, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}
	return adminID, expiresAt, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE admin_refresh_tokens
		SET revoked_at = now()
		WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *Repository) RevokeAllRefreshTokens(ctx context.Context, adminID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE admin_refresh_tokens
		SET revoked_at = now()
		WHERE admin_user_id = $1 AND revoked_at IS NULL`, adminID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}
