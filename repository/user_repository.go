package repository

import (
	"fmt"

	"github.com/camden-git/photosharebackend/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Profile").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Profile").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Profile").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user ID %d: %w", user.ID, err)
	}
	return nil
}

func (r *GormUserRepository) CreateProfile(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

func (r *GormUserRepository) GetProfileByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) GetProfileByConfirmationToken(token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("email_confirmation_token = ?", token).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) GetProfileByResetToken(token string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("password_reset_token = ?", token).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) SaveProfile(profile *models.UserProfile) error {
	if err := r.db.Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile for user ID %d: %w", profile.UserID, err)
	}
	return nil
}

func (r *GormUserRepository) UpdateAvatarPath(userID uint, avatarPath *string) error {
	result := r.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Update("avatar_path", avatarPath)
	if result.Error != nil {
		return fmt.Errorf("failed to update avatar for user ID %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
