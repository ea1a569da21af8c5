package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xodiumx/foodgram/internal/testhelpers"
)

// inMemoryImageStore keeps uploads out of tests; it just fabricates URLs.
type inMemoryImageStore struct {
	uploads int
}

func (s *inMemoryImageStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	s.uploads++
	return "https://media.test/" + uuid.NewString(), nil
}

// SetupTestRouter builds the full API against an in-memory database.
func SetupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	router := gin.New()
	router.Use(gin.Recovery())
	SetupAPI(router, db, nil, "test-secret", &inMemoryImageStore{})

	return router, db
}

// LoginTestUser creates an account through the API and returns its id and a
// bearer token.
func LoginTestUser(t *testing.T, router *gin.Engine, db *gorm.DB, username string) (uuid.UUID, string) {
	t.Helper()

	user := testhelpers.CreateTestUser(t, db, username)

	w := PerformRequest(router, http.MethodPost, "/api/auth/token/login", map[string]string{
		"email":    user.Email,
		"password": "testpassword123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AuthToken)

	return user.ID, resp.AuthToken
}

// PerformRequest executes one request against the router. An empty token
// leaves the request anonymous.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
