package repository

import (
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

// GormAccessLinkRepository is the access link registry: it persists the
// capability grants album owners hand out to clients.
type GormAccessLinkRepository struct {
	db *gorm.DB
}

func NewGormAccessLinkRepository(db *gorm.DB) AccessLinkRepository {
	return &GormAccessLinkRepository{db: db}
}

// Create persists a new access link. Token generation and password hashing
// happen in the model's BeforeCreate hook, so a plaintext password on the
// struct is hashed exactly once before it reaches the database.
func (r *GormAccessLinkRepository) Create(link *models.AccessLink) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create access link for album %d: %w", link.AlbumID, err)
	}
	return nil
}

func (r *GormAccessLinkRepository) GetByID(id uint) (*models.AccessLink, error) {
	var link models.AccessLink
	err := r.db.Preload("Album").First(&link, id).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *GormAccessLinkRepository) GetByToken(token string) (*models.AccessLink, error) {
	var link models.AccessLink
	err := r.db.Preload("Album").Where("token = ?", token).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *GormAccessLinkRepository) ListByAlbum(albumID uint) ([]models.AccessLink, error) {
	var links []models.AccessLink
	err := r.db.Where("album_id = ?", albumID).Order("created_at DESC").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list access links for album %d: %w", albumID, err)
	}
	return links, nil
}

// Update saves changes to an existing link. The BeforeSave hook keeps the
// password hashing idempotent, so re-saving a loaded link never double-hashes.
func (r *GormAccessLinkRepository) Update(link *models.AccessLink) error {
	if err := r.db.Save(link).Error; err != nil {
		return fmt.Errorf("failed to update access link ID %d: %w", link.ID, err)
	}
	return nil
}

// Delete removes a link and everything it exclusively owns: its client
// tokens and its selections. Runs in one transaction.
func (r *GormAccessLinkRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("access_link_id = ?", id).Delete(&models.ClientSelection{}).Error; err != nil {
			return fmt.Errorf("failed to delete selections for access link ID %d: %w", id, err)
		}
		if err := tx.Where("access_link_id = ?", id).Delete(&models.ClientAccessToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete client tokens for access link ID %d: %w", id, err)
		}
		result := tx.Delete(&models.AccessLink{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete access link ID %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
