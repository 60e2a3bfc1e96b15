package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise-api/internal/middleware"
	"github.com/wastewise/wastewise-api/internal/models"
)

// claimsFromContext reads the claims the JWT middleware stored. Handlers on
// protected routes treat nil as an unauthenticated request.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	if claims, ok := v.(*models.JWTClaims); ok {
		return claims
	}
	return nil
}

// queryInt parses an integer query parameter, falling back on absent or
// malformed input.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
