package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	getErr    error
	createErr error
	existsErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Get(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) Put(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.UserName] = u
	return nil
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.UserName]; ok {
		return common.ErrDuplicateUser
	}
	f.users[u.UserName] = u
	return nil
}

func (f *fakeUsersRepo) Exists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.users[username]
	return ok, nil
}

type fakeTxRepo struct {
	mu      sync.Mutex
	records []models.Transaction

	appendErr error
	statsErr  error
}

func (f *fakeTxRepo) Append(_ context.Context, tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	tx.Seq = int64(len(f.records) + 1)
	f.records = append(f.records, *tx)
	return nil
}

func (f *fakeTxRepo) ListAll(context.Context) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Transaction{}, f.records...), nil
}

func (f *fakeTxRepo) ListByBuyer(_ context.Context, buyer string) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Transaction{}
	for _, r := range f.records {
		if transactions.BuyerKey(r.BuyerName) == transactions.BuyerKey(buyer) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) Stats(context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return 0, 0, f.statsErr
	}
	var total int64
	for _, r := range f.records {
		total += r.Price
	}
	return int64(len(f.records)), total, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTxRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository { return m.t }

type fakeRecorder struct {
	mu           sync.Mutex
	transactions []string
	logins       []bool
}

func (r *fakeRecorder) TransactionRecorded(category string, _ int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, category)
}

func (r *fakeRecorder) LoginAttempt(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, ok)
}
