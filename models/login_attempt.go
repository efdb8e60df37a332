package models

import "time"

// LoginAttempt is an append-only audit row recorded for every login attempt,
// successful or not. The brute-force throttle counts recent failed rows at
// query time; nothing ever mutates or deletes them.
type LoginAttempt struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"index:idx_attempt_user_ip;not null"`
	IPAddress     string    `json:"ip_address" gorm:"index:idx_attempt_user_ip;not null"`
	AttemptedAt   time.Time `json:"attempted_at" gorm:"index;not null"`
	WasSuccessful bool      `json:"was_successful" gorm:"default:false"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}
