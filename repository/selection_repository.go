package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

// GormSelectionRepository is the selection ledger. The quota check and the
// insert run inside a single transaction so two concurrent selects on the
// same link cannot both pass the quota check; the unique (link, photo) index
// backs the at-most-one-selection-per-photo invariant regardless.
type GormSelectionRepository struct {
	db *gorm.DB
}

func NewGormSelectionRepository(db *gorm.DB) SelectionRepository {
	return &GormSelectionRepository{db: db}
}

// Select get-or-creates the selection row for (linkID, photoID).
// Re-selecting an already-selected photo is a no-op reported via
// created=false, and is allowed even when the quota is full.
func (r *GormSelectionRepository) Select(linkID, photoID uint, maxSelections *int) (bool, error) {
	created := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ClientSelection
		err := tx.Where("access_link_id = ? AND photo_id = ?", linkID, photoID).First(&existing).Error
		if err == nil {
			return nil // already selected
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up selection: %w", err)
		}

		if maxSelections != nil {
			var count int64
			if err := tx.Model(&models.ClientSelection{}).Where("access_link_id = ?", linkID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count selections for link %d: %w", linkID, err)
			}
			if count >= int64(*maxSelections) {
				return ErrQuotaExceeded
			}
		}

		sel := models.ClientSelection{AccessLinkID: linkID, PhotoID: photoID, Selected: true}
		if err := tx.Create(&sel).Error; err != nil {
			return fmt.Errorf("failed to create selection: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

// Unselect deletes the selection row if present
func (r *GormSelectionRepository) Unselect(linkID, photoID uint) error {
	result := r.db.Where("access_link_id = ? AND photo_id = ?", linkID, photoID).Delete(&models.ClientSelection{})
	if result.Error != nil {
		return fmt.Errorf("failed to unselect photo %d for link %d: %w", photoID, linkID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByLink returns all selections for a link in insertion order
func (r *GormSelectionRepository) ListByLink(linkID uint) ([]models.ClientSelection, error) {
	var selections []models.ClientSelection
	err := r.db.Where("access_link_id = ?", linkID).Order("created_at ASC").Find(&selections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list selections for link %d: %w", linkID, err)
	}
	return selections, nil
}

func (r *GormSelectionRepository) CountByLink(linkID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ClientSelection{}).Where("access_link_id = ?", linkID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count selections for link %d: %w", linkID, err)
	}
	return count, nil
}
