package models

import "time"

// Photo represents a single uploaded image inside an album.
// FilePath and ThumbnailPath are relative to the media store root;
// OriginalFilename keeps the name the file was uploaded with, which is
// what archive entries and downloads are named after.
type Photo struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	OwnerID          uint      `json:"owner_id" gorm:"index;not null"`
	AlbumID          uint      `json:"album_id" gorm:"index;not null"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	FilePath         string    `json:"file_path" gorm:"not null"`
	OriginalFilename string    `json:"original_filename" gorm:"not null"`
	ThumbnailPath    *string   `json:"thumbnail_path,omitempty"` // Nullable until the worker finishes
	Order            int       `json:"order" gorm:"column:sort_index;default:0"`
	TakenAt          *int64    `json:"taken_at,omitempty"` // Unix timestamp from EXIF, nullable
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Photo) TableName() string {
	return "photos"
}

// Favorite marks a photo as favorited by a user. Unique per (user, photo).
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index:idx_fav_user_photo,unique;not null"`
	PhotoID   uint      `json:"photo_id" gorm:"index:idx_fav_user_photo,unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
