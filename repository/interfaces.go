package repository

import (
	"time"

	"github.com/camden-git/photosharebackend/models"
)

// UserRepository defines the methods for user and profile data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error

	CreateProfile(profile *models.UserProfile) error
	GetProfileByUserID(userID uint) (*models.UserProfile, error)
	GetProfileByConfirmationToken(token string) (*models.UserProfile, error)
	GetProfileByResetToken(token string) (*models.UserProfile, error)
	SaveProfile(profile *models.UserProfile) error
	UpdateAvatarPath(userID uint, avatarPath *string) error
}

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	GetByIDForOwner(id, ownerID uint) (*models.Album, error)
	ListByOwner(ownerID uint) ([]models.Album, error)
	Update(albumID uint, title string, description *string) error
	SetTags(albumID uint, tags []models.AlbumTag) error
	Delete(id uint) error
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Create(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetByIDInAlbum(photoID, albumID uint) (*models.Photo, error)
	ListByAlbum(albumID uint, sortOrder string) ([]models.Photo, error)
	ListByIDs(ids []uint) ([]models.Photo, error)
	Update(photo *models.Photo) error
	UpdateThumbnailPath(photoID uint, thumbPath *string) error
	SetOrder(photoID, albumID uint, order int) error
	Delete(id uint) error
}

// TagRepository defines the methods for album tag data operations
type TagRepository interface {
	Create(tag *models.AlbumTag) error
	GetByIDForUser(id, userID uint) (*models.AlbumTag, error)
	ListByUser(userID uint) ([]models.AlbumTag, error)
	Delete(id, userID uint) error
}

// FavoriteRepository defines the methods for favorite data operations
type FavoriteRepository interface {
	Toggle(userID, photoID uint) (added bool, err error)
	ListPhotosByUser(userID uint) ([]models.Photo, error)
}

// AccessLinkRepository owns AccessLink entities: shareable capability grants
// for one album. Delete cascades to the link's client tokens and selections.
type AccessLinkRepository interface {
	Create(link *models.AccessLink) error
	GetByID(id uint) (*models.AccessLink, error)
	GetByToken(token string) (*models.AccessLink, error)
	ListByAlbum(albumID uint) ([]models.AccessLink, error)
	Update(link *models.AccessLink) error
	Delete(id uint) error
}

// ClientTokenRepository persists the bearer tokens minted by the client token
// issuer. Tokens are write-once; expired rows are left in place.
type ClientTokenRepository interface {
	Create(token *models.ClientAccessToken) error
	GetByToken(token string) (*models.ClientAccessToken, error)
}

// SelectionRepository is the selection ledger: which photos a link's visitor
// has picked, bounded by the link's optional selection quota.
type SelectionRepository interface {
	// Select get-or-creates the (link, photo) row. It returns created=false
	// with a nil error when the photo was already selected, and
	// ErrQuotaExceeded when the link's quota is already full.
	Select(linkID, photoID uint, maxSelections *int) (created bool, err error)
	// Unselect removes the row; gorm.ErrRecordNotFound if it doesn't exist.
	Unselect(linkID, photoID uint) error
	ListByLink(linkID uint) ([]models.ClientSelection, error)
	CountByLink(linkID uint) (int64, error)
}

// LoginAttemptRepository records login attempts and answers the sliding-window
// failure count used by the brute-force throttle.
type LoginAttemptRepository interface {
	Record(username, ipAddress string, wasSuccessful bool) error
	CountRecentFailures(username, ipAddress string, window time.Duration) (int64, error)
}
