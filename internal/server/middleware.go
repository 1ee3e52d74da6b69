package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mowind/icap-go/internal/config"
	apperrors "github.com/mowind/icap-go/internal/errors"
)

// requestIDKey is the gin context key holding the request id.
const requestIDKey = "request_id"

// AuthMiddleware authenticates requests using Bearer tokens or X-API-Key headers.
//
// Paths with a whitelisted prefix skip authentication. A "/" entry only
// matches the root path, so whitelisting the JSON-RPC endpoint does not open
// every route.
func AuthMiddleware(cfg config.AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.Secret)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, whitelistedPath := range cfg.Whitelist {
			if whitelistedPath == "/" && path != "/" {
				continue
			}
			if strings.HasPrefix(path, whitelistedPath) {
				c.Next()
				return
			}
		}

		// Authorization header wins over X-API-Key when both are present
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" && subtle.ConstantTimeCompare([]byte(parts[1]), secret) == 1 {
				c.Next()
				return
			}
			abortUnauthorized(c)
			return
		}

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" && subtle.ConstantTimeCompare([]byte(apiKey), secret) == 1 {
			c.Next()
			return
		}

		abortUnauthorized(c)
	}
}

// abortUnauthorized writes the same body for every failure to avoid leaking which check failed.
func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "authentication failed",
		"code":  http.StatusUnauthorized,
	})
}

// RequestIDMiddleware attaches a request id to the request context and the
// response headers. Client supplied ids are kept only when they are UUIDs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := apperrors.RequestIDFromHeader(c.GetHeader(apperrors.RequestIDHeader))

		c.Set(requestIDKey, requestID)
		c.Request = c.Request.WithContext(apperrors.NewContextWithRequestID(c.Request.Context(), requestID))
		c.Header(apperrors.RequestIDHeader, requestID)
		c.Next()
	}
}
