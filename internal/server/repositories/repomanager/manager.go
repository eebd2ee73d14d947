// Package repomanager vends storage-specific repository implementations and
// runs the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}

// gooseMu guards goose's package-level base FS and dialect.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}
