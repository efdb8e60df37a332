package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestCreateAccessLinkGeneratesTokenAndHashesPassword(t *testing.T) {
	repo := NewGormAccessLinkRepository(setupTestDB(t))

	link := &models.AccessLink{AlbumID: 1, Password: strPtr("secret")}
	require.NoError(t, repo.Create(link))

	assert.NotEmpty(t, link.Token)
	require.NotNil(t, link.Password)
	assert.True(t, strings.HasPrefix(*link.Password, "$2"))
	assert.True(t, link.CheckPassword("secret"))
}

func TestUpdateAccessLinkKeepsPasswordVerifiable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessLinkRepository(db)

	link := &models.AccessLink{AlbumID: 1, Password: strPtr("secret")}
	require.NoError(t, repo.Create(link))

	// load and re-save without touching the password
	loaded, err := repo.GetByToken(link.Token)
	require.NoError(t, err)
	loaded.CanDownload = true
	require.NoError(t, repo.Update(loaded))

	reloaded, err := repo.GetByToken(link.Token)
	require.NoError(t, err)
	assert.True(t, reloaded.CanDownload)
	assert.True(t, reloaded.CheckPassword("secret"), "re-saving must not corrupt the stored hash")
}

func TestGetAccessLinkByTokenNotFound(t *testing.T) {
	repo := NewGormAccessLinkRepository(setupTestDB(t))

	_, err := repo.GetByToken("no-such-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteAccessLinkCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAccessLinkRepository(db)
	tokenRepo := NewGormClientTokenRepository(db)
	selectionRepo := NewGormSelectionRepository(db)

	link := &models.AccessLink{AlbumID: 1}
	require.NoError(t, repo.Create(link))

	require.NoError(t, tokenRepo.Create(&models.ClientAccessToken{
		Token:        "bearer-1",
		AccessLinkID: link.ID,
		ExpiresAt:    time.Now().Add(2 * time.Hour),
	}))
	_, err := selectionRepo.Select(link.ID, 10, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(link.ID))

	_, err = repo.GetByID(link.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = tokenRepo.GetByToken("bearer-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := selectionRepo.CountByLink(link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestClientTokenPreloadsAccessLink(t *testing.T) {
	db := setupTestDB(t)
	linkRepo := NewGormAccessLinkRepository(db)
	tokenRepo := NewGormClientTokenRepository(db)

	require.NoError(t, db.Create(&models.Album{ID: 1, OwnerID: 1, Title: "Wedding"}).Error)

	link := &models.AccessLink{AlbumID: 1}
	require.NoError(t, linkRepo.Create(link))

	require.NoError(t, tokenRepo.Create(&models.ClientAccessToken{
		Token:        "bearer-2",
		AccessLinkID: link.ID,
		ExpiresAt:    time.Now().Add(2 * time.Hour),
	}))

	loaded, err := tokenRepo.GetByToken("bearer-2")
	require.NoError(t, err)
	assert.Equal(t, link.ID, loaded.AccessLink.ID)
	assert.Equal(t, "Wedding", loaded.AccessLink.Album.Title)
}
