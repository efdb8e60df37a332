package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

// GormLoginAttemptRepository records login attempts and answers the
// sliding-window failure count for the brute-force throttle. Rows are
// append-only; the window is computed at query time, never swept.
type GormLoginAttemptRepository struct {
	db *gorm.DB
}

func NewGormLoginAttemptRepository(db *gorm.DB) LoginAttemptRepository {
	return &GormLoginAttemptRepository{db: db}
}

func (r *GormLoginAttemptRepository) Record(username, ipAddress string, wasSuccessful bool) error {
	attempt := models.LoginAttempt{
		Username:      username,
		IPAddress:     ipAddress,
		AttemptedAt:   time.Now(),
		WasSuccessful: wasSuccessful,
	}
	if err := r.db.Create(&attempt).Error; err != nil {
		return fmt.Errorf("failed to record login attempt for %s: %w", username, err)
	}
	return nil
}

// CountRecentFailures counts failed attempts for the exact (username, ip)
// pair inside the window ending now.
func (r *GormLoginAttemptRepository) CountRecentFailures(username, ipAddress string, window time.Duration) (int64, error) {
	cutoff := time.Now().Add(-window)

	query, args, err := sq.Select("COUNT(*)").
		From("login_attempts").
		Where(sq.Eq{"username": username, "ip_address": ipAddress, "was_successful": false}).
		Where(sq.GtOrEq{"attempted_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build login attempt count query: %w", err)
	}

	var count int64
	if err := r.db.Raw(query, args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count login attempts for %s: %w", username, err)
	}
	return count, nil
}
