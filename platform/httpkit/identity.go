package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the admin resolved by AuthRequired for the current request.
type Identity interface {
	UserID() uuid.UUID
	HasRole(role string) bool
	IsAuthenticated() bool
}

type identity struct {
	userID uuid.UUID
	roles  []string
}

func (i identity) UserID() uuid.UUID { return i.userID }

func (i identity) HasRole(role string) bool {
	return i.IsAuthenticated() && slices.Contains(i.roles, role)
}

func (i identity) IsAuthenticated() bool { return i.userID != uuid.Nil }

// GetIdentity reads the claims stored by AuthRequired. Requests that never
// passed through it get an anonymous identity with no roles.
func GetIdentity(c *gin.Context) Identity {
	var id identity
	if raw, ok := c.Get(ContextUserIDKey); ok {
		id.userID, _ = raw.(uuid.UUID)
	}
	if raw, ok := c.Get(ContextRolesKey); ok {
		id.roles, _ = raw.([]string)
	}
	return id
}

// MustGetIdentity aborts with 401 and returns nil when the request is anonymous.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, "unauthorized")
		return nil
	}
	return id
}
