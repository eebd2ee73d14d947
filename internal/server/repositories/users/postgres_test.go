package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectUserQ = `(?s)^SELECT\s+username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`
	insertUserQ = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*created_at\)\s+VALUES\s*\(\$1,\s*\$2,\s*\$3\)$`
	upsertUserQ = `(?s)^INSERT\s+INTO\s+users\s*\(.+\)\s+VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s+ON\s+CONFLICT\s*\(username\)\s+DO\s+UPDATE`
	existsUserQ = `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\)$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectUserQ).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "created_at"}).
			AddRow("bob", []byte("hash"), created))

	got, err := repo.Get(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, &models.User{UserName: "bob", PasswordHash: []byte("hash"), CreatedAt: created}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectUserQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresGet_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	boom := errors.New("db down")

	mock.ExpectQuery(selectUserQ).WithArgs("bob").WillReturnError(boom)

	_, err := repo.Get(context.Background(), "bob")
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.ErrorIs(t, err, boom)
}

func TestPostgresCreate(t *testing.T) {
	created := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	user := &models.User{UserName: "bob", PasswordHash: []byte("hash"), CreatedAt: created}

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "inserted"},
		{name: "duplicate", execErr: &pgconn.PgError{Code: "23505"}, wantErr: common.ErrDuplicateUser},
		{name: "storage", execErr: errors.New("conn reset"), wantErr: common.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			exp := mock.ExpectExec(insertUserQ).WithArgs("bob", []byte("hash"), created)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresPut_Upsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(upsertUserQ).
		WithArgs("bob", []byte("hash"), created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsertUserQ).
		WithArgs("bob", []byte("hash"), created).
		WillReturnError(errors.New("conn reset"))

	user := &models.User{UserName: "bob", PasswordHash: []byte("hash"), CreatedAt: created}
	require.NoError(t, repo.Put(context.Background(), user))
	assert.ErrorIs(t, repo.Put(context.Background(), user), common.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(existsUserQ).WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(existsUserQ).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(existsUserQ).WithArgs("carol").
		WillReturnError(errors.New("timeout"))

	ok, err := repo.Exists(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Exists(context.Background(), "carol")
	assert.ErrorIs(t, err, common.ErrStorage)
}
