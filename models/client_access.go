package models

import "time"

// ClientAccessToken is an ephemeral bearer credential minted after a
// successful password exchange against an access link. Tokens are never
// updated or revoked; they simply stop being valid at ExpiresAt. Expired
// rows stay in the table and are rejected at authentication time.
type ClientAccessToken struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Token        string     `json:"token" gorm:"uniqueIndex;not null"`
	AccessLinkID uint       `json:"access_link_id" gorm:"index;not null"`
	AccessLink   AccessLink `json:"-" gorm:"foreignKey:AccessLinkID"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at" gorm:"not null"`
}

func (ClientAccessToken) TableName() string {
	return "client_access_tokens"
}

// IsValid reports whether the token can still authenticate requests.
func (t *ClientAccessToken) IsValid() bool {
	return time.Now().Before(t.ExpiresAt)
}

// ClientSelection records one visitor pick of one photo under one access
// link. The (access_link, photo) pair is unique; the row's existence is what
// counts toward the link's selection quota.
type ClientSelection struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AccessLinkID uint      `json:"access_link_id" gorm:"index:idx_selection_link_photo,unique;not null"`
	PhotoID      uint      `json:"photo_id" gorm:"index:idx_selection_link_photo,unique;not null"`
	Selected     bool      `json:"selected" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ClientSelection) TableName() string {
	return "client_selections"
}
