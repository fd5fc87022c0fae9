package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"owner": OwnerKey(c)})
	})
	return r
}

// TestAuthRequired_MissingToken はBearerトークンなしのリクエストが401になることを検証します。
func TestAuthRequired_MissingToken(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "test-secret")
	router := setupRouter()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic abc123"},
		{"empty bearer prefix", "Bearerabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// TestAuthRequired_InvalidToken は無効なトークンが401になることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "test-secret")
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAuthRequired_MissingSecret はJWT_SECRET未設定時に500になることを検証します。
func TestAuthRequired_MissingSecret(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "")
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// TestAuthRequired_ValidToken は有効なトークンでオーナーキーがコンテキストに入ることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "test-secret")
	router := setupRouter()

	gen := NewGenerator("test-secret", time.Hour)
	tokenStr, err := gen.GenerateToken(42, "user@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"owner":"42"}`, w.Body.String())
}

// TestAuthRequired_ExpiredToken は期限切れトークンが401になることを検証します。
func TestAuthRequired_ExpiredToken(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "test-secret")
	router := setupRouter()

	gen := NewGenerator("test-secret", -time.Minute)
	tokenStr, err := gen.GenerateToken(42, "user@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
