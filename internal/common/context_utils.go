package common

import (
	"context"

	"github.com/google/uuid"

	"mf360/internal/models"
)

type contextKey string

const (
	UserIDKey      contextKey = "user_id"
	CurrentUserKey contextKey = "current_user"
)

// GetUserIDFromContext extracts the authenticated user ID from the request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetCurrentUserFromContext extracts the authenticated user loaded by the
// auth middleware.
func GetCurrentUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUserKey).(*models.User)
	return user, ok
}
