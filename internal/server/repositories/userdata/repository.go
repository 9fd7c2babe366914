package userdata

import (
	"context"
	"time"

	"github.com/dmitrijs2005/loveops/internal/server/models"
)

// Repository keeps one document per user.
type Repository interface {
	// Upsert replaces the user's document and returns the new updated_at.
	Upsert(ctx context.Context, userID string, data []byte) (time.Time, error)
	// Get returns common.ErrorNotFound when the user never pushed.
	Get(ctx context.Context, userID string) (*models.UserData, error)
}
