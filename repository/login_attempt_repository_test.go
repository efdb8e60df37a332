package repository

import (
	"testing"
	"time"

	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRecentFailures(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoginAttemptRepository(db)

	require.NoError(t, repo.Record("alice", "10.0.0.1", false))
	require.NoError(t, repo.Record("alice", "10.0.0.1", false))
	require.NoError(t, repo.Record("alice", "10.0.0.1", true))

	count, err := repo.CountRecentFailures("alice", "10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "successful attempts must not count")
}

func TestCountRecentFailuresScopedToUserAndIP(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoginAttemptRepository(db)

	require.NoError(t, repo.Record("alice", "10.0.0.1", false))
	require.NoError(t, repo.Record("alice", "10.0.0.2", false))
	require.NoError(t, repo.Record("bob", "10.0.0.1", false))

	count, err := repo.CountRecentFailures("alice", "10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountRecentFailuresIgnoresOldAttempts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLoginAttemptRepository(db)

	old := models.LoginAttempt{
		Username:      "alice",
		IPAddress:     "10.0.0.1",
		AttemptedAt:   time.Now().Add(-time.Hour),
		WasSuccessful: false,
	}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, repo.Record("alice", "10.0.0.1", false))

	count, err := repo.CountRecentFailures("alice", "10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "attempts outside the window must not count")
}

func TestCountRecentFailuresEmpty(t *testing.T) {
	repo := NewGormLoginAttemptRepository(setupTestDB(t))

	count, err := repo.CountRecentFailures("nobody", "10.0.0.1", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
