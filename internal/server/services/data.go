package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/loveops/internal/common"
	"github.com/dmitrijs2005/loveops/internal/server/models"
	"github.com/dmitrijs2005/loveops/internal/server/repositories/repomanager"
)

// DataService stores the whole synced document of each user. The last
// push wins; nothing is merged.
type DataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDataService(db *sql.DB, m repomanager.RepositoryManager) *DataService {
	return &DataService{db: db, repomanager: m}
}

// Push replaces the user's document. It must be a JSON object.
func (s *DataService) Push(ctx context.Context, userID string, data []byte) (time.Time, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return time.Time{}, fmt.Errorf("%w: document must be a JSON object", common.ErrorValidation)
	}

	at, err := s.repomanager.UserData(s.db).Upsert(ctx, userID, data)
	if err != nil {
		return time.Time{}, fmt.Errorf("error saving document: %w", err)
	}
	return at, nil
}

// Pull returns the user's document, or common.ErrorNotFound before the
// first push.
func (s *DataService) Pull(ctx context.Context, userID string) (*models.UserData, error) {
	d, err := s.repomanager.UserData(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return d, nil
}
