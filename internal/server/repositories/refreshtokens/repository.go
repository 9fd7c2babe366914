package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/loveops/internal/server/models"
)

// Repository issues, looks up and revokes refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes token and reports whether a row was removed, so two
	// concurrent rotations of the same token cannot both succeed.
	Delete(ctx context.Context, token string) (bool, error)

	// DeleteExpired drops the user's tokens that expired before now.
	DeleteExpired(ctx context.Context, userID string, now time.Time) error
}
