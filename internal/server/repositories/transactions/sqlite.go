package transactions

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/models"
)

const liteColumns = `seq, created_at, buyer_name, product_code, product_name, category, price, operator`

// SQLiteRepository implements Repository on SQLite. created_at is stored as
// Unix nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, tx *models.Transaction) error {
	query :=
		`INSERT INTO transactions (created_at, buyer_name, buyer_key, product_code, product_name, category, price, operator)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		tx.Timestamp.UnixNano(), tx.BuyerName, BuyerKey(tx.BuyerName),
		tx.ProductCode, tx.ProductName, tx.Category, tx.Price, tx.Operator,
	)
	if err != nil {
		return common.Storage("insert transaction", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return common.Storage("read transaction seq", err)
	}
	tx.Seq = seq

	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + liteColumns + ` FROM transactions ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.Storage("select transactions", err)
	}
	return scanSQLite(rows)
}

func (r *SQLiteRepository) ListByBuyer(ctx context.Context, buyer string) ([]models.Transaction, error) {
	query := `SELECT ` + liteColumns + ` FROM transactions WHERE buyer_key = ? ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, BuyerKey(buyer))
	if err != nil {
		return nil, common.Storage("select transactions by buyer", err)
	}
	return scanSQLite(rows)
}

func (r *SQLiteRepository) Stats(ctx context.Context) (int64, int64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(price), 0) FROM transactions`

	var count, total int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &total); err != nil {
		return 0, 0, common.Storage("aggregate transactions", err)
	}

	return count, total, nil
}

func scanSQLite(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			t       models.Transaction
			created int64
		)
		if err := rows.Scan(&t.Seq, &created, &t.BuyerName, &t.ProductCode,
			&t.ProductName, &t.Category, &t.Price, &t.Operator); err != nil {
			return nil, common.Storage("scan transaction", err)
		}
		t.Timestamp = time.Unix(0, created).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Storage("iterate transactions", err)
	}

	return out, nil
}
