package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtutil "github.com/careersage/careersage-backend/pkg/jwt"
)

func authTestRouter(manager *jwtutil.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("userId"),
			"email":  c.GetString("email"),
		})
	})
	return router
}

func TestAuth_ValidToken(t *testing.T) {
	manager := jwtutil.NewJWTManager("test-secret", time.Hour)
	router := authTestRouter(manager)

	token, err := manager.Generate("u1", "Alice", "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)
	assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
}

func TestAuth_Rejections(t *testing.T) {
	manager := jwtutil.NewJWTManager("test-secret", time.Hour)
	router := authTestRouter(manager)

	expired, err := jwtutil.NewJWTManager("test-secret", -time.Minute).Generate("u1", "Alice", "a@b.c")
	require.NoError(t, err)
	forged, err := jwtutil.NewJWTManager("other-secret", time.Hour).Generate("u1", "Alice", "a@b.c")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing header", "", "Authorization header required"},
		{"not bearer", "Basic abc123", "Invalid authorization header format"},
		{"bare token", "sometoken", "Invalid authorization header format"},
		{"garbage token", "Bearer not.a.token", "Invalid or expired token"},
		{"expired token", "Bearer " + expired, "Invalid or expired token"},
		{"wrong signature", "Bearer " + forged, "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
}
