package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wastewise/wastewise-api/internal/models"
)

func performRBAC(t *testing.T, claims *models.JWTClaims, mw gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	return rec
}

func TestRequireStaffAllowsAdmins(t *testing.T) {
	rec := performRBAC(t, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, RequireStaff())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireStaffBlocksResidents(t *testing.T) {
	rec := performRBAC(t, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser}, RequireStaff())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireStaffWithoutClaims(t *testing.T) {
	rec := performRBAC(t, nil, RequireStaff())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesAcceptsAnyListedRole(t *testing.T) {
	mw := RequireRoles(models.RoleUser, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, performRBAC(t, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser}, mw).Code)
	assert.Equal(t, http.StatusOK, performRBAC(t, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, mw).Code)
}
