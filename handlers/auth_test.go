package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedAttempt struct {
	username      string
	ipAddress     string
	wasSuccessful bool
}

// mockLoginAttemptRepo answers a fixed failure count per (username, ip) pair
// and keeps everything recorded through it.
type mockLoginAttemptRepo struct {
	failures map[string]int64
	recorded []recordedAttempt
}

func newMockLoginAttemptRepo() *mockLoginAttemptRepo {
	return &mockLoginAttemptRepo{failures: map[string]int64{}}
}

func (m *mockLoginAttemptRepo) setFailures(username, ipAddress string, count int64) {
	m.failures[username+"|"+ipAddress] = count
}

func (m *mockLoginAttemptRepo) Record(username, ipAddress string, wasSuccessful bool) error {
	m.recorded = append(m.recorded, recordedAttempt{username, ipAddress, wasSuccessful})
	return nil
}

func (m *mockLoginAttemptRepo) CountRecentFailures(username, ipAddress string, window time.Duration) (int64, error) {
	return m.failures[username+"|"+ipAddress], nil
}

// mockUserRepo tracks whether the credential store was consulted at all.
type mockUserRepo struct {
	users               map[string]*models.User
	getByUsernameCalled bool
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *mockUserRepo) Create(user *models.User) error { m.users[user.Username] = user; return nil }

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(username string) (*models.User, error) {
	m.getByUsernameCalled = true
	u, ok := m.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(user *models.User) error { return nil }

func (m *mockUserRepo) CreateProfile(profile *models.UserProfile) error { return nil }

func (m *mockUserRepo) GetProfileByUserID(userID uint) (*models.UserProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetProfileByConfirmationToken(token string) (*models.UserProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetProfileByResetToken(token string) (*models.UserProfile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SaveProfile(profile *models.UserProfile) error { return nil }

func (m *mockUserRepo) UpdateAvatarPath(userID uint, avatarPath *string) error { return nil }

func newLoginHandler(userRepo *mockUserRepo, attemptRepo *mockLoginAttemptRepo) *AuthHandler {
	cfg := config.Config{
		JWTSecret:                 "test-secret",
		LoginAttemptWindowMinutes: 15,
		LoginAttemptLimit:         5,
	}
	return &AuthHandler{UserRepo: userRepo, AttemptRepo: attemptRepo, Cfg: cfg}
}

func postLogin(t *testing.T, handler *AuthHandler, remoteAddr, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.Login(rec, req)
	return rec
}

func TestLoginThrottledBeforeCredentialCheck(t *testing.T) {
	userRepo := newMockUserRepo()
	attemptRepo := newMockLoginAttemptRepo()
	attemptRepo.setFailures("alice", "10.0.0.1", 5)
	handler := newLoginHandler(userRepo, attemptRepo)

	rec := postLogin(t, handler, "10.0.0.1:52100", `{"username":"alice","password":"whatever"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrCodeThrottled, decodeErrorCode(t, rec.Body.Bytes()))
	assert.False(t, userRepo.getByUsernameCalled, "credential store must not be consulted once throttled")
	assert.Empty(t, attemptRepo.recorded, "a throttled request is not a new attempt")
}

func TestLoginThrottleScopedToSourceAddress(t *testing.T) {
	userRepo := newMockUserRepo()
	attemptRepo := newMockLoginAttemptRepo()
	attemptRepo.setFailures("alice", "10.0.0.1", 5)
	handler := newLoginHandler(userRepo, attemptRepo)

	rec := postLogin(t, handler, "10.0.0.2:52100", `{"username":"alice","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeInvalidCredentials, decodeErrorCode(t, rec.Body.Bytes()))
	assert.True(t, userRepo.getByUsernameCalled, "a fresh address gets a real credential check")

	require.Len(t, attemptRepo.recorded, 1)
	assert.Equal(t, recordedAttempt{"alice", "10.0.0.2", false}, attemptRepo.recorded[0])
}

func TestLoginBelowLimitRejectsBadPassword(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	require.NoError(t, user.SetPassword("correct"))
	userRepo := newMockUserRepo(user)
	attemptRepo := newMockLoginAttemptRepo()
	attemptRepo.setFailures("alice", "10.0.0.1", 4)
	handler := newLoginHandler(userRepo, attemptRepo)

	rec := postLogin(t, handler, "10.0.0.1:52100", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ErrCodeInvalidCredentials, decodeErrorCode(t, rec.Body.Bytes()))

	require.Len(t, attemptRepo.recorded, 1)
	assert.False(t, attemptRepo.recorded[0].wasSuccessful)
}
