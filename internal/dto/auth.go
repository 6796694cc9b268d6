package dto

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignInRequest carries the ID token credential from Google's sign-in
// widget.
type GoogleSignInRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// ExchangeCodeRequest carries a Google OAuth authorization code.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// RefreshRequest is the body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest is the body for POST /auth/logout. The refresh token is
// optional; logout succeeds without one.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register, login and the Google sign-in
// variants.
type AuthResponse struct {
	Message      string       `json:"message"`
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RefreshResponse is returned by a successful token rotation.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
