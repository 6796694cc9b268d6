package domain

import "time"

// User represents an account holder. A credential kind may be absent:
// PasswordHash is nil for Google-only accounts and GoogleID is nil for
// password-only accounts, but never both.
type User struct {
	UserID        int64     `json:"userID"`
	Email         string    `json:"email"`
	PasswordHash  *string   `json:"-"`
	GoogleID      *string   `json:"-"`
	Name          string    `json:"name"`
	AvatarURL     *string   `json:"avatarURL,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasPassword reports whether this account can be used for password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// GoogleUserInfo holds the verified identity claims extracted from a Google
// ID token.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
