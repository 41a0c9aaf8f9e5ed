package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PhoneVerified bool      `json:"phone_verified"`
	GameID        string    `json:"game_id"`
	Role          UserRole  `json:"role"`
	Protected     bool      `json:"protected"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserUpdate carries the optional fields of a partial profile update.
// Nil means "leave unchanged".
type UserUpdate struct {
	Username      *string   `json:"username,omitempty"`
	PasswordHash  *string   `json:"-"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	PhoneVerified *bool     `json:"phone_verified,omitempty"`
	GameID        *string   `json:"game_id,omitempty"`
	Role          *UserRole `json:"role,omitempty"`
}
