package models

import "time"

// Admin is the elevated-identity record kept separately from User.
// The bootstrap system administrator lives here with Protected set,
// which exempts it from demotion and deletion everywhere.
type Admin struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	AccessLevel  int       `json:"access_level"`
	Protected    bool      `json:"protected"`
	CreatedAt    time.Time `json:"created_at"`
}
