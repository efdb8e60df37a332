package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/camden-git/photosharebackend/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockAccessLinkRepo is an in-memory AccessLinkRepository keyed by token.
type mockAccessLinkRepo struct {
	links map[string]*models.AccessLink
}

func newMockAccessLinkRepo(links ...*models.AccessLink) *mockAccessLinkRepo {
	m := &mockAccessLinkRepo{links: map[string]*models.AccessLink{}}
	for _, l := range links {
		m.links[l.Token] = l
	}
	return m
}

func (m *mockAccessLinkRepo) Create(link *models.AccessLink) error {
	m.links[link.Token] = link
	return nil
}

func (m *mockAccessLinkRepo) GetByID(id uint) (*models.AccessLink, error) {
	for _, l := range m.links {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccessLinkRepo) GetByToken(token string) (*models.AccessLink, error) {
	l, ok := m.links[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (m *mockAccessLinkRepo) ListByAlbum(albumID uint) ([]models.AccessLink, error) {
	var out []models.AccessLink
	for _, l := range m.links {
		if l.AlbumID == albumID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockAccessLinkRepo) Update(link *models.AccessLink) error {
	m.links[link.Token] = link
	return nil
}

func (m *mockAccessLinkRepo) Delete(id uint) error {
	for token, l := range m.links {
		if l.ID == id {
			delete(m.links, token)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newClientAuthRouter(linkRepo *mockAccessLinkRepo, tokenRepo *mockClientTokenRepo) *chi.Mux {
	handler := &ClientAccessHandler{
		LinkRepo:  linkRepo,
		TokenRepo: tokenRepo,
	}
	r := chi.NewRouter()
	r.Post("/client-access/{token}/auth", handler.ClientAuth)
	return r
}

func postClientAuth(t *testing.T, router http.Handler, linkToken, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/client-access/"+linkToken+"/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestClientAuthUnknownLink(t *testing.T) {
	router := newClientAuthRouter(newMockAccessLinkRepo(), newMockClientTokenRepo())

	rec := postClientAuth(t, router, "missing", `{}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientAuthExpiredLink(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	link := &models.AccessLink{ID: 1, AlbumID: 1, Token: "expired-link", ExpiresAt: &past}
	router := newClientAuthRouter(newMockAccessLinkRepo(link), newMockClientTokenRepo())

	rec := postClientAuth(t, router, "expired-link", `{}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ErrCodeLinkExpired, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientAuthWrongPassword(t *testing.T) {
	link := &models.AccessLink{ID: 1, AlbumID: 1, Token: "protected"}
	require.NoError(t, link.SetPassword("secret"))
	router := newClientAuthRouter(newMockAccessLinkRepo(link), newMockClientTokenRepo())

	rec := postClientAuth(t, router, "protected", `{"password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeInvalidCredentials, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestClientAuthCorrectPasswordMintsToken(t *testing.T) {
	link := &models.AccessLink{ID: 1, AlbumID: 1, Token: "protected"}
	require.NoError(t, link.SetPassword("secret"))
	tokenRepo := newMockClientTokenRepo()
	router := newClientAuthRouter(newMockAccessLinkRepo(link), tokenRepo)

	rec := postClientAuth(t, router, "protected", `{"password":"secret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string    `json:"access_token"`
		ExpiresAt   time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)

	minted, err := tokenRepo.GetByToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, link.ID, minted.AccessLinkID)

	// TTL of roughly two hours from now
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), minted.ExpiresAt, time.Minute)
}

func TestClientAuthOpenLinkAcceptsEmptyBody(t *testing.T) {
	link := &models.AccessLink{ID: 1, AlbumID: 1, Token: "open"}
	router := newClientAuthRouter(newMockAccessLinkRepo(link), newMockClientTokenRepo())

	rec := postClientAuth(t, router, "open", ``)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientAuthMalformedBody(t *testing.T) {
	link := &models.AccessLink{ID: 1, AlbumID: 1, Token: "open"}
	router := newClientAuthRouter(newMockAccessLinkRepo(link), newMockClientTokenRepo())

	rec := postClientAuth(t, router, "open", `{"password":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, decodeErrorCode(t, rec.Body.Bytes()))
}

// clientScopedRequest builds a request carrying an already-authenticated
// client token, as the middleware would have left it.
func clientScopedRequest(method, target, body string, link models.AccessLink) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	token := &models.ClientAccessToken{
		Token:      "bearer",
		AccessLink: link,
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	return req.WithContext(context.WithValue(req.Context(), ClientTokenContextKey, token))
}

func TestDownloadSelectedEmptyListIsEmptyResult(t *testing.T) {
	// nil SelectionRepo: the ledger must not be consulted for an empty list
	handler := &ClientAccessHandler{}
	link := models.AccessLink{ID: 1, AlbumID: 1, CanDownload: true}

	req := clientScopedRequest(http.MethodPost, "/client-access/abc/download-selected", `{"photo_ids":[]}`, link)
	rec := httptest.NewRecorder()
	handler.DownloadSelected(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeEmptyResult, decodeErrorCode(t, rec.Body.Bytes()))
}

func TestDownloadSelectedRequiresDownloadPermission(t *testing.T) {
	handler := &ClientAccessHandler{}
	link := models.AccessLink{ID: 1, AlbumID: 1, CanDownload: false}

	req := clientScopedRequest(http.MethodPost, "/client-access/abc/download-selected", `{"photo_ids":[1]}`, link)
	rec := httptest.NewRecorder()
	handler.DownloadSelected(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ErrCodeDownloadsDisabled, decodeErrorCode(t, rec.Body.Bytes()))
}
