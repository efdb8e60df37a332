package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccessLink is a shareable capability grant for one album: an unguessable
// token plus optional password, expiry, download permission, and a cap on how
// many photos the visitor may select.
type AccessLink struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	AlbumID    uint    `json:"album_id" gorm:"index;not null"`
	Album      Album   `json:"-" gorm:"foreignKey:AlbumID"`
	ClientName *string `json:"client_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Token      string  `json:"token" gorm:"uniqueIndex;not null"`
	// Password holds the bcrypt hash, never plaintext. Nil means the link is
	// open and any password exchange succeeds.
	Password *string `json:"-"`

	CanDownload   bool       `json:"can_download" gorm:"default:false"`
	MaxSelections *int       `json:"max_selections,omitempty"` // Nullable for unbounded
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`     // Nullable for no expiration

	WelcomeMessage    string    `json:"welcome_message"`
	NotifyOnSelection bool      `json:"notify_on_selection" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at"`
}

func (AccessLink) TableName() string {
	return "access_links"
}

// BeforeCreate generates the opaque token if not provided and makes sure a
// plaintext password never reaches the database.
func (al *AccessLink) BeforeCreate(tx *gorm.DB) (err error) {
	if al.Token == "" {
		al.Token = uuid.New().String()
	}
	return al.EnsurePasswordHashed()
}

// BeforeSave re-applies the hashing guard on updates. EnsurePasswordHashed is
// idempotent, so an already-hashed value passes through unchanged.
func (al *AccessLink) BeforeSave(tx *gorm.DB) (err error) {
	return al.EnsurePasswordHashed()
}

// passwordIsHashed reports whether the stored value already carries the bcrypt
// marker. Skipping re-hashing on repeated saves is correctness-critical: a
// double-hashed password would never verify again.
func passwordIsHashed(password string) bool {
	return strings.HasPrefix(password, "$2a$") ||
		strings.HasPrefix(password, "$2b$") ||
		strings.HasPrefix(password, "$2y$")
}

// EnsurePasswordHashed hashes the password field in place unless it is empty
// or already hashed.
func (al *AccessLink) EnsurePasswordHashed() error {
	if al.Password == nil || *al.Password == "" {
		al.Password = nil
		return nil
	}
	if passwordIsHashed(*al.Password) {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(*al.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s := string(hashed)
	al.Password = &s
	return nil
}

// SetPassword replaces the link password with the hash of rawPassword.
func (al *AccessLink) SetPassword(rawPassword string) error {
	al.Password = nil
	if rawPassword == "" {
		return nil
	}
	al.Password = &rawPassword
	return al.EnsurePasswordHashed()
}

// CheckPassword verifies a submitted plaintext against the stored hash.
// A link without a password is open: the check always succeeds.
func (al *AccessLink) CheckPassword(rawPassword string) bool {
	if al.Password == nil || *al.Password == "" {
		return true
	}
	err := bcrypt.CompareHashAndPassword([]byte(*al.Password), []byte(rawPassword))
	return err == nil
}

// IsExpired reports whether the link itself has passed its expiry.
func (al *AccessLink) IsExpired() bool {
	return al.ExpiresAt != nil && time.Now().After(*al.ExpiresAt)
}

// ShareURL derives the public URL clients use to open this link.
func (al *AccessLink) ShareURL(baseURL string) string {
	return fmt.Sprintf("%s/client-access/%s/", strings.TrimRight(baseURL, "/"), al.Token)
}
