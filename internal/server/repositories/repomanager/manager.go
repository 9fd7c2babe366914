package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/loveops/internal/dbx"
	"github.com/dmitrijs2005/loveops/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/loveops/internal/server/repositories/userdata"
	"github.com/dmitrijs2005/loveops/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx, so
// services can run several of them in one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	UserData(db dbx.DBTX) userdata.Repository
}
