package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HOLYLABS972/esim-main-sub002/internal/utils"
)

// APIKeyMiddleware guards admin and collaborator-webhook routes with a
// static bearer key. Full user authentication lives in a separate service;
// this core only needs to keep the operational surface off the open web.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Missing or invalid authorization header")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			utils.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid API token")
			c.Abort()
			return
		}

		c.Next()
	}
}
