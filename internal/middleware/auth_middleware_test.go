package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m4tinbeigi-official/didar-crm/internal/config"
	"github.com/m4tinbeigi-official/didar-crm/internal/utils"
)

func newAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	r.POST("/run", SyncTokenMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = 3600
	cfg.Didar.SyncToken = "sync-token"
	return cfg
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)

	token, err := utils.GenerateJWT("admin@example.com", "admin", cfg)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	router := newAuthRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	router := newAuthRouter(cfg)

	other := testConfig()
	other.JWT.Secret = "different-secret"
	token, err := utils.GenerateJWT("admin@example.com", "admin", other)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyncTokenMiddleware(t *testing.T) {
	router := newAuthRouter(testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Sync-Token", "sync-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Sync-Token", "wrong")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/run", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSyncTokenMiddlewareEmptyConfiguredTokenDeniesAll(t *testing.T) {
	cfg := testConfig()
	cfg.Didar.SyncToken = ""
	router := newAuthRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	req.Header.Set("X-Sync-Token", "")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
