package web

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gogoref/gogoref/internal/logger"
)

// requireAdmin rejects requests whose Authorization header does not carry
// token as a bearer token. An empty token rejects everything.
func requireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		given, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			logger.IncrCounter("http.unauthorized")
			logger.Warn("Rejected admin request", logger.Fields{
				"path":   c.FullPath(),
				"client": c.ClientIP(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
			return
		}

		c.Next()
	}
}
