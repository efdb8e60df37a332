package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account that owns albums, photos, and tags.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// UserProfile holds per-user state that is not part of the credential record:
// the avatar and the email confirmation flow.
type UserProfile struct {
	ID                         uint       `json:"id" gorm:"primaryKey"`
	UserID                     uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	AvatarPath                 *string    `json:"avatar_path,omitempty"`
	EmailConfirmationToken     *string    `json:"-" gorm:"index"`
	EmailConfirmationSentDate  *time.Time `json:"-"`
	EmailConfirmed             bool       `json:"email_confirmed" gorm:"default:false"`
	PasswordResetToken         *string    `json:"-" gorm:"index"`
	PasswordResetTokenSentDate *time.Time `json:"-"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
