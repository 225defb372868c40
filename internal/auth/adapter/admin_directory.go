// Package adapter provides implementations of external interfaces that other domains need.
// This follows the Anti-Corruption Layer pattern - auth domain provides adapters
// that satisfy consumer-driven interfaces defined by other domains.
package adapter

import (
	"context"

	"sakkanal_backend/internal/auth/domain"
	"sakkanal_backend/internal/notification/ports"
)

// AdminDirectoryAdapter implements notification/ports.AdminDirectory using the auth service.
type AdminDirectoryAdapter struct {
	svc domain.Service
}

// NewAdminDirectoryAdapter creates a new adapter for listing notification recipients.
func NewAdminDirectoryAdapter(svc domain.Service) *AdminDirectoryAdapter {
	return &AdminDirectoryAdapter{svc: svc}
}

// ListRecipients implements ports.AdminDirectory.
func (a *AdminDirectoryAdapter) ListRecipients(ctx context.Context) ([]ports.Recipient, error) {
	admins, err := a.svc.ListActiveAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ports.Recipient, 0, len(admins))
	for _, admin := range admins {
		out = append(out, ports.Recipient{
			AdminID:  admin.ID,
			Email:    admin.Email,
			FullName: admin.FullName,
		})
	}
	return out, nil
}

var _ ports.AdminDirectory = (*AdminDirectoryAdapter)(nil)
