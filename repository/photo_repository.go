package repository

import (
	"fmt"
	"sort"

	"github.com/camden-git/photosharebackend/database"
	"github.com/camden-git/photosharebackend/models"
	"github.com/facette/natsort"
	"gorm.io/gorm"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Create creates a new photo record in the database
func (r *PhotoRepository) Create(photo *models.Photo) error {
	err := r.DB.Create(photo).Error
	if err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.OriginalFilename, err)
	}
	return nil
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// GetByIDInAlbum retrieves a photo only if it belongs to the given album.
// Client-scoped endpoints use this so a bearer token can never reach photos
// outside its link's album.
func (r *PhotoRepository) GetByIDInAlbum(photoID, albumID uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.Where("id = ? AND album_id = ?", photoID, albumID).First(&photo).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo ID %d in album %d: %w", photoID, albumID, err)
	}
	return &photo, nil
}

// ListByAlbum retrieves all photos of an album in the requested sort order.
// Natural filename sorting has no SQL equivalent, so it is applied in memory.
func (r *PhotoRepository) ListByAlbum(albumID uint, sortOrder string) ([]models.Photo, error) {
	var photos []models.Photo

	query := r.DB.Where("album_id = ?", albumID)
	switch sortOrder {
	case database.SortFilenameAsc:
		query = query.Order("original_filename ASC")
	case database.SortDateDesc:
		query = query.Order("created_at DESC")
	case database.SortDateAsc:
		query = query.Order("created_at ASC")
	case database.SortFilenameNat:
		// fetched in insertion order, sorted below
	default:
		query = query.Order("sort_index ASC, created_at ASC")
	}

	if err := query.Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos for album %d: %w", albumID, err)
	}

	if sortOrder == database.SortFilenameNat {
		sort.SliceStable(photos, func(i, j int) bool {
			return natsort.Compare(photos[i].OriginalFilename, photos[j].OriginalFilename)
		})
	}
	return photos, nil
}

// ListByIDs retrieves the photos matching the given IDs
func (r *PhotoRepository) ListByIDs(ids []uint) ([]models.Photo, error) {
	var photos []models.Photo
	if len(ids) == 0 {
		return photos, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos by IDs: %w", err)
	}
	return photos, nil
}

// Update saves changes to an existing photo record
func (r *PhotoRepository) Update(photo *models.Photo) error {
	if err := r.DB.Save(photo).Error; err != nil {
		return fmt.Errorf("failed to update photo ID %d: %w", photo.ID, err)
	}
	return nil
}

// UpdateThumbnailPath sets the generated thumbnail path for a photo
func (r *PhotoRepository) UpdateThumbnailPath(photoID uint, thumbPath *string) error {
	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Update("thumbnail_path", thumbPath)
	if result.Error != nil {
		return fmt.Errorf("failed to update thumbnail path for photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetOrder updates the manual sort index of a photo within its album
func (r *PhotoRepository) SetOrder(photoID, albumID uint, order int) error {
	result := r.DB.Model(&models.Photo{}).
		Where("id = ? AND album_id = ?", photoID, albumID).
		Update("sort_index", order)
	if result.Error != nil {
		return fmt.Errorf("failed to set order for photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a photo and the favorites and selections that reference it
func (r *PhotoRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites for photo ID %d: %w", id, err)
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.ClientSelection{}).Error; err != nil {
			return fmt.Errorf("failed to delete selections for photo ID %d: %w", id, err)
		}
		result := tx.Delete(&models.Photo{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete photo ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
