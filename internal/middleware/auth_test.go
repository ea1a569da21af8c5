package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/xodiumx/foodgram/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (v *stubValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	return v.claims, v.err
}

func performWithAuth(handler gin.HandlerFunc, authHeader string) (*httptest.ResponseRecorder, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var caller *uuid.UUID
	router.GET("/probe", handler, func(c *gin.Context) {
		caller = CallerID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, caller
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "anna"}}
	invalid := &stubValidator{err: errors.New("invalid token")}

	t.Run("valid token", func(t *testing.T) {
		w, caller := performWithAuth(AuthMiddleware(valid), "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, caller)
		assert.Equal(t, userID, *caller)
	})

	t.Run("missing header", func(t *testing.T) {
		w, _ := performWithAuth(AuthMiddleware(valid), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w, _ := performWithAuth(AuthMiddleware(valid), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		w, _ := performWithAuth(AuthMiddleware(invalid), "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	valid := &stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "anna"}}
	invalid := &stubValidator{err: errors.New("invalid token")}

	t.Run("anonymous passes through", func(t *testing.T) {
		w, caller := performWithAuth(OptionalAuthMiddleware(valid), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, caller)
	})

	t.Run("valid token resolves the caller", func(t *testing.T) {
		w, caller := performWithAuth(OptionalAuthMiddleware(valid), "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, caller)
	})

	t.Run("bad token degrades to anonymous", func(t *testing.T) {
		w, caller := performWithAuth(OptionalAuthMiddleware(invalid), "Bearer bad-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, caller)
	})
}

func TestRateLimiterWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/write", NewRecipeWriteRateLimiter(nil).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}
