package services

import (
	"context"
	"database/sql"

	"github.com/amuzant/Crewmates/repositories"
)

// dbTx is the slice of *sql.Tx the services use: statement execution for the
// repositories plus commit and rollback.
type dbTx interface {
	repositories.SQLExecutor
	Commit() error
	Rollback() error
}

func beginTxFrom(db *sql.DB) func(ctx context.Context) (dbTx, error) {
	return func(ctx context.Context) (dbTx, error) {
		return db.BeginTx(ctx, nil)
	}
}
