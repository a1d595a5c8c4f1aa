package domain

import "time"

// User represents an account that owns movies and tags.
type User struct {
	Base
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// DisplayName returns the best available name for the user.
// Falls back to the email address when no name was set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
