package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gopherai-tutor/internal/pkg/sessiontoken"
	"gopherai-tutor/internal/transport/http/response"
)

const ContextSessionIDKey = "session_id"

// SessionToken requires a bearer token issued for the session named by the
// :id path parameter.
func SessionToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := sessiontoken.Parse(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.SessionID != c.Param("id") {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "token does not grant access to this session")
			c.Abort()
			return
		}

		c.Set(ContextSessionIDKey, claims.SessionID)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionIDKey)
}
