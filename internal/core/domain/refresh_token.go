package domain

import "time"

// RefreshToken is a long-lived, server-tracked credential. The token string
// itself is the lookup key; a row is deleted (never flagged) on rotation,
// logout, or expiry sweep.
type RefreshToken struct {
	UserID    int64     `json:"userID"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// RefreshTokenOwner is the identity a valid refresh token resolves to.
type RefreshTokenOwner struct {
	UserID int64
	Email  string
	Name   string
}

// TokenPair is the access/refresh credential set handed to a client after a
// successful sign-in or rotation.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
