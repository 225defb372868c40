package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office account.
type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthRepository defines the interface for authentication data operations.
// This allows services to depend on an abstraction rather than concrete implementation,
// improving testability and modularity.
type AuthRepository interface {
	// Admin operations
	CreateAdmin(ctx context.Context, email, passwordHash, fullName string) (Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdminByID(ctx context.Context, adminID uuid.UUID) (Admin, error)
	ListActiveAdmins(ctx context.Context) ([]Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	UpdatePassword(ctx context.Context, adminID uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, adminID uuid.UUID) error

	// Refresh token operations
	CreateRefreshToken(ctx context.Context, adminID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, adminID uuid.UUID) error
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
