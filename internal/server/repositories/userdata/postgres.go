// Package userdata stores each user's synced document in PostgreSQL.
package userdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/dbx"
	"github.com/dmitrijs2005/loveops/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, data []byte) (time.Time, error) {
	query := `
		INSERT INTO user_data (user_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`
	var updatedAt time.Time
	if err := r.db.QueryRowContext(ctx, query, userID, string(data)).Scan(&updatedAt); err != nil {
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}
	return updatedAt, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.UserData, error) {
	query := `
		SELECT data, updated_at
		FROM user_data
		WHERE user_id = $1
	`
	d := &models.UserData{UserID: userID}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&d.Data, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}
