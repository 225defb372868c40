// Package domain holds the admin types shared by the auth packages and its adapters.
// Only types and interfaces defined here should be imported by other domains.
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the role carried by every back-office account.
const RoleAdmin = "admin"

// Profile represents admin information that can be shared with other domains.
type Profile struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// Service defines the public interface for authentication operations.
// Other domains should depend on this interface, not on concrete implementations.
type Service interface {
	// GetMe returns the profile of the admin with the given ID.
	GetMe(ctx context.Context, adminID uuid.UUID) (Profile, error)
	// ListActiveAdmins returns every admin that can receive notifications.
	ListActiveAdmins(ctx context.Context) ([]Profile, error)
}
