package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockClientTokenRepo is an in-memory ClientTokenRepository for middleware tests.
type mockClientTokenRepo struct {
	tokens map[string]*models.ClientAccessToken
}

func newMockClientTokenRepo() *mockClientTokenRepo {
	return &mockClientTokenRepo{tokens: map[string]*models.ClientAccessToken{}}
}

func (m *mockClientTokenRepo) Create(token *models.ClientAccessToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockClientTokenRepo) GetByToken(token string) (*models.ClientAccessToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Errors)
	return resp.Errors[0].Code
}

func runClientMiddleware(repo *mockClientTokenRepo, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ClientTokenAuthMiddleware(repo)(next).ServeHTTP(rec, r)
	return rec
}

func TestClientTokenMiddlewareMissingToken(t *testing.T) {
	repo := newMockClientTokenRepo()
	req := httptest.NewRequest(http.MethodGet, "/client-access/abc/album", nil)

	rec := runClientMiddleware(repo, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeUnauthenticated, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientTokenMiddlewareUnknownToken(t *testing.T) {
	repo := newMockClientTokenRepo()
	req := httptest.NewRequest(http.MethodGet, "/client-access/abc/album", nil)
	req.Header.Set("Authorization", "Bearer nope")

	rec := runClientMiddleware(repo, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeInvalidToken, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientTokenMiddlewareExpiredToken(t *testing.T) {
	repo := newMockClientTokenRepo()
	require.NoError(t, repo.Create(&models.ClientAccessToken{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	req := httptest.NewRequest(http.MethodGet, "/client-access/abc/album", nil)
	req.Header.Set("Authorization", "Bearer stale")

	rec := runClientMiddleware(repo, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeTokenExpired, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientTokenMiddlewareValidToken(t *testing.T) {
	repo := newMockClientTokenRepo()
	require.NoError(t, repo.Create(&models.ClientAccessToken{
		Token:     "fresh",
		ExpiresAt: time.Now().Add(2 * time.Hour),
	}))

	req := httptest.NewRequest(http.MethodGet, "/client-access/abc/album", nil)
	req.Header.Set("Authorization", "Bearer fresh")

	var seen *models.ClientAccessToken
	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClientTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	ClientTokenAuthMiddleware(repo)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "fresh", seen.Token)
}

func TestClientTokenMiddlewareQueryParamTakesPrecedence(t *testing.T) {
	repo := newMockClientTokenRepo()
	require.NoError(t, repo.Create(&models.ClientAccessToken{
		Token:     "from-query",
		ExpiresAt: time.Now().Add(2 * time.Hour),
	}))

	req := httptest.NewRequest(http.MethodGet, "/client-access/abc/album?access_token=from-query", nil)
	req.Header.Set("Authorization", "Bearer from-header")

	rec := runClientMiddleware(repo, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
