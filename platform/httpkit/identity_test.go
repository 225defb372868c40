package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func roleRouter(userID uuid.UUID, roles []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(ContextUserIDKey, userID)
			c.Set(ContextRolesKey, roles)
		}
		c.Next()
	})
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		c.String(http.StatusOK, id.UserID().String())
	})
	r.GET("/me", func(c *gin.Context) {
		if MustGetIdentity(c) == nil {
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRole(t *testing.T) {
	adminID := uuid.New()
	cases := []struct {
		name   string
		userID uuid.UUID
		roles  []string
		status int
	}{
		{"admin", adminID, []string{"admin"}, http.StatusOK},
		{"missing role", adminID, []string{"viewer"}, http.StatusForbidden},
		{"anonymous", uuid.Nil, nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			roleRouter(tc.userID, tc.roles).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, adminID.String(), rec.Body.String())
			}
		})
	}
}

func TestMustGetIdentityRejectsAnonymous(t *testing.T) {
	rec := httptest.NewRecorder()
	roleRouter(uuid.Nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnonymousIdentityHasNoRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ContextRolesKey, []string{"admin"})

	id := GetIdentity(c)
	assert.False(t, id.IsAuthenticated())
	assert.False(t, id.HasRole("admin"))
}
