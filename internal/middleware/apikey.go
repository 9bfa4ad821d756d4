package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"contact-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIKeyHeaderName is the header carrying the shared API key
const APIKeyHeaderName = "X-API-Key"

// KeyVerifier decides whether a presented API key is acceptable.
// Keeping the comparison behind a function makes it possible to swap
// the single shared secret for per-key lookups later without touching
// the middleware or any route registration.
type KeyVerifier func(key string) bool

// StaticKeyVerifier verifies against a single configured secret using
// a constant-time comparison
func StaticKeyVerifier(secret string) KeyVerifier {
	return func(key string) bool {
		if secret == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(secret), []byte(key)) == 1
	}
}

// APIKeyAuth gates every request behind the X-API-Key header.
// Paths matching one of skipPrefixes pass through without a key; an
// entry of "/" matches the root path only.
func APIKeyAuth(verify KeyVerifier, skipPrefixes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			for _, prefix := range skipPrefixes {
				if prefix == "/" {
					if path == "/" {
						return next(c)
					}
					continue
				}
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			log := logger.FromContext(c)

			key := c.Request().Header.Get(APIKeyHeaderName)
			if key == "" {
				log.Warn("Missing API key", zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "API Key is missing",
				})
			}

			if !verify(key) {
				log.Warn("Invalid API key", zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid API Key",
				})
			}

			return next(c)
		}
	}
}
