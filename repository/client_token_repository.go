package repository

import (
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

type GormClientTokenRepository struct {
	db *gorm.DB
}

func NewGormClientTokenRepository(db *gorm.DB) ClientTokenRepository {
	return &GormClientTokenRepository{db: db}
}

func (r *GormClientTokenRepository) Create(token *models.ClientAccessToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create client access token for link %d: %w", token.AccessLinkID, err)
	}
	return nil
}

// GetByToken resolves a bearer token string to its row with the owning access
// link preloaded. Expiry is not checked here; the authenticator decides what
// to do with a stale token.
func (r *GormClientTokenRepository) GetByToken(token string) (*models.ClientAccessToken, error) {
	var t models.ClientAccessToken
	err := r.db.Preload("AccessLink").Preload("AccessLink.Album").Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
