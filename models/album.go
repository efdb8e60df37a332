package models

import "time"

// Album represents a user-owned collection of photos.
// It corresponds to the 'albums' table.
type Album struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"index;not null"`
	Owner       User      `json:"-" gorm:"foreignKey:OwnerID"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"` // Nullable
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Tags   []AlbumTag `json:"tags,omitempty" gorm:"many2many:album_tag_assignments;"`
	Photos []Photo    `json:"photos,omitempty" gorm:"foreignKey:AlbumID"`
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// AlbumTag is a per-user label that can be attached to any number of albums.
// The (name, user) pair is unique.
type AlbumTag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"index:idx_tag_name_user,unique;not null"`
	UserID    uint      `json:"user_id" gorm:"index:idx_tag_name_user,unique;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (AlbumTag) TableName() string {
	return "album_tags"
}
