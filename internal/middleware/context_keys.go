package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/skycastapp/skycast_backend/internal/core/domain"
)

// authUserKey is the key used to store the authenticated user in the Gin
// context.
const authUserKey = string(contextKey("authUser"))

// setUserInContext attaches the verified identity to the Gin context.
func setUserInContext(c *gin.Context, user *domain.User) {
	c.Set(authUserKey, user)
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
// It returns the user and a boolean indicating if one was attached.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal, exists := c.Get(authUserKey)
	if !exists {
		return nil, false
	}

	user, ok := userVal.(*domain.User)
	if !ok {
		// This should not happen if the auth middleware sets it correctly.
		return nil, false
	}

	return user, true
}

// GetUserIDFromContext retrieves the authenticated user's ID from the Gin
// context.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	user, ok := GetUserFromContext(c)
	if !ok {
		return 0, false
	}
	return user.UserID, true
}
