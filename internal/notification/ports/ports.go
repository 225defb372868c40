// Package ports defines the interfaces the notification module needs from other domains.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// Recipient is an active back-office administrator that receives notifications.
type Recipient struct {
	AdminID  uuid.UUID
	Email    string
	FullName string
}

// AdminDirectory lists the administrators that notifications fan out to.
type AdminDirectory interface {
	ListRecipients(ctx context.Context) ([]Recipient, error)
}
