package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Toggle adds the favorite if it doesn't exist yet and removes it if it does.
// Returns whether the photo ended up favorited.
func (r *GormFavoriteRepository) Toggle(userID, photoID uint) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var fav models.Favorite
		err := tx.Where("user_id = ? AND photo_id = ?", userID, photoID).First(&fav).Error
		if err == nil {
			return tx.Delete(&fav).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up favorite: %w", err)
		}
		added = true
		return tx.Create(&models.Favorite{UserID: userID, PhotoID: photoID}).Error
	})
	return added, err
}

// ListPhotosByUser returns the photos the user has favorited, newest favorite first
func (r *GormFavoriteRepository) ListPhotosByUser(userID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.
		Joins("JOIN favorites ON favorites.photo_id = photos.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	return photos, nil
}
