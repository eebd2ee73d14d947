package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository on SQLite. created_at is stored as
// Unix nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT username, password_hash, created_at FROM users WHERE username = ?`

	var (
		user    models.User
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.UserName, &user.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.Storage("select user", err)
	}
	user.CreatedAt = time.Unix(0, created).UTC()

	return &user, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash, created_at = excluded.created_at`

	if _, err := r.db.ExecContext(ctx, query, user.UserName, user.PasswordHash, user.CreatedAt.UnixNano()); err != nil {
		return common.Storage("upsert user", err)
	}

	return nil
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.UserName, user.PasswordHash, user.CreatedAt.UnixNano())
	if err != nil {
		if isConstraintViolation(err) {
			return common.ErrDuplicateUser
		}
		return common.Storage("insert user", err)
	}

	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, common.Storage("check user", err)
	}

	return exists, nil
}

func isConstraintViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}
