package exports

import (
	"net/http"

	"sakkanal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the plaintext export API key.
const APIKeyHeader = "X-Export-API-Key"

const contextKeyID = "exportKeyID"

// APIKeyAuthMiddleware validates export API keys for pull-based export endpoints.
func APIKeyAuthMiddleware(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		plaintext := c.GetHeader(APIKeyHeader)
		if plaintext == "" {
			httpkit.Error(c, http.StatusUnauthorized, "missing export API key", nil)
			c.Abort()
			return
		}

		key, err := repo.GetAPIKeyByHash(c.Request.Context(), HashKey(plaintext))
		if err != nil {
			httpkit.Error(c, http.StatusUnauthorized, "invalid export API key", nil)
			c.Abort()
			return
		}

		c.Set(contextKeyID, key.ID)
		c.Next()
	}
}
