package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/petfit-backend/internal/http/response"
)

const headerAdminToken = "X-Admin-Token"

// RequireAdminToken guards admin routes with a shared token. An empty token rejects every request.
func RequireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader(headerAdminToken))
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("admin token required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
