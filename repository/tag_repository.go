package repository

import (
	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

func (r *GormTagRepository) Create(tag *models.AlbumTag) error {
	return r.db.Create(tag).Error
}

func (r *GormTagRepository) GetByIDForUser(id, userID uint) (*models.AlbumTag, error) {
	var tag models.AlbumTag
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *GormTagRepository) ListByUser(userID uint) ([]models.AlbumTag, error) {
	var tags []models.AlbumTag
	err := r.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *GormTagRepository) Delete(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.AlbumTag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
