package repository

import (
	"fmt"
	"testing"

	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// unique shared-cache name per test so pooled connections see one schema
	// without leaking state between tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Photo{},
		&models.AccessLink{},
		&models.ClientAccessToken{},
		&models.ClientSelection{},
		&models.LoginAttempt{},
	))
	return db
}

func intPtr(v int) *int { return &v }

func TestSelectCreatesSelection(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))

	created, err := repo.Select(1, 10, nil)
	require.NoError(t, err)
	assert.True(t, created)

	count, err := repo.CountByLink(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSelectSamePhotoTwiceIsNoOp(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))

	created, err := repo.Select(1, 10, nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Select(1, 10, nil)
	require.NoError(t, err)
	assert.False(t, created, "re-selecting must succeed without creating a row")

	count, err := repo.CountByLink(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSelectEnforcesQuota(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))
	quota := intPtr(2)

	created, err := repo.Select(1, 10, quota)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Select(1, 11, quota)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = repo.Select(1, 12, quota)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	count, err := repo.CountByLink(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSelectAlreadySelectedSucceedsAtFullQuota(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))
	quota := intPtr(1)

	created, err := repo.Select(1, 10, quota)
	require.NoError(t, err)
	assert.True(t, created)

	// quota is full but photo 10 is already in the ledger
	created, err = repo.Select(1, 10, quota)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestQuotaIsPerLink(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))
	quota := intPtr(1)

	created, err := repo.Select(1, 10, quota)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Select(2, 10, quota)
	require.NoError(t, err)
	assert.True(t, created, "a different link has its own quota")
}

func TestUnselectRemovesSelection(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))

	_, err := repo.Select(1, 10, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Unselect(1, 10))

	count, err := repo.CountByLink(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnselectMissingSelection(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))

	err := repo.Unselect(1, 10)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUnselectFreesQuotaSlot(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))
	quota := intPtr(2)

	_, err := repo.Select(1, 10, quota)
	require.NoError(t, err)
	_, err = repo.Select(1, 11, quota)
	require.NoError(t, err)
	_, err = repo.Select(1, 12, quota)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	require.NoError(t, repo.Unselect(1, 11))

	created, err := repo.Select(1, 12, quota)
	require.NoError(t, err)
	assert.True(t, created, "unselect must free a quota slot")
}

func TestSingleSlotSelectionLifecycle(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))
	quota := intPtr(1)

	created, err := repo.Select(1, 10, quota)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = repo.Select(1, 11, quota)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	require.NoError(t, repo.Unselect(1, 10))

	created, err = repo.Select(1, 11, quota)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestListByLink(t *testing.T) {
	repo := NewGormSelectionRepository(setupTestDB(t))

	_, err := repo.Select(1, 10, nil)
	require.NoError(t, err)
	_, err = repo.Select(1, 11, nil)
	require.NoError(t, err)
	_, err = repo.Select(2, 12, nil)
	require.NoError(t, err)

	selections, err := repo.ListByLink(1)
	require.NoError(t, err)
	require.Len(t, selections, 2)
	assert.Equal(t, uint(10), selections[0].PhotoID)
	assert.Equal(t, uint(11), selections[1].PhotoID)
}
