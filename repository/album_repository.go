package repository

import (
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// Create creates a new album record in the database
func (r *AlbumRepository) Create(album *models.Album) error {
	err := r.DB.Create(album).Error
	if err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Title, err)
	}
	return nil
}

// GetByID retrieves an album by its ID
func (r *AlbumRepository) GetByID(id uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.Preload("Tags").First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// GetByIDForOwner retrieves an album only if it belongs to the given owner.
// Ownership filtering at the query level is the whole permission model for
// the user-facing CRUD surface.
func (r *AlbumRepository) GetByIDForOwner(id, ownerID uint) (*models.Album, error) {
	var album models.Album
	err := r.DB.Preload("Tags").Where("id = ? AND owner_id = ?", id, ownerID).First(&album).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album ID %d for owner %d: %w", id, ownerID, err)
	}
	return &album, nil
}

// ListByOwner retrieves all albums belonging to a user, newest first
func (r *AlbumRepository) ListByOwner(ownerID uint) ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Preload("Tags").Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums for owner %d: %w", ownerID, err)
	}
	return albums, nil
}

// Update updates an existing album's title and description
func (r *AlbumRepository) Update(albumID uint, title string, description *string) error {
	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.DB.Model(&models.Album{}).Where("id = ?", albumID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update album ID %d: %w", albumID, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		r.DB.Model(&models.Album{}).Where("id = ?", albumID).Count(&count)
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// SetTags replaces the album's tag assignments
func (r *AlbumRepository) SetTags(albumID uint, tags []models.AlbumTag) error {
	album := models.Album{ID: albumID}
	if err := r.DB.Model(&album).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("failed to set tags for album ID %d: %w", albumID, err)
	}
	return nil
}

// Delete removes an album and everything it exclusively owns: its photos,
// access links, and through those the favorites, client tokens, and
// selections that reference them. SQLite foreign keys are not enforced here,
// so the cascade is explicit and runs in one transaction.
func (r *AlbumRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		photoIDs := tx.Model(&models.Photo{}).Select("id").Where("album_id = ?", id)
		linkIDs := tx.Model(&models.AccessLink{}).Select("id").Where("album_id = ?", id)

		if err := tx.Where("photo_id IN (?)", photoIDs).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites for album ID %d: %w", id, err)
		}
		if err := tx.Where("access_link_id IN (?)", linkIDs).Delete(&models.ClientSelection{}).Error; err != nil {
			return fmt.Errorf("failed to delete selections for album ID %d: %w", id, err)
		}
		if err := tx.Where("access_link_id IN (?)", linkIDs).Delete(&models.ClientAccessToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete client tokens for album ID %d: %w", id, err)
		}
		if err := tx.Where("album_id = ?", id).Delete(&models.AccessLink{}).Error; err != nil {
			return fmt.Errorf("failed to delete access links for album ID %d: %w", id, err)
		}
		if err := tx.Where("album_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return fmt.Errorf("failed to delete photos for album ID %d: %w", id, err)
		}

		result := tx.Delete(&models.Album{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete album ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
