package dto

import (
	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// UserResponse is the caller-facing view of a user. It never carries the
// password hash or the Google subject ID.
type UserResponse struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarURL,omitempty"`
}

// ToUserResponse converts a domain.User to a UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}
