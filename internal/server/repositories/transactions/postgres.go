package transactions

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/dbx"
	"github.com/dmitrijs2005/kasir/internal/server/models"
)

const pgColumns = `seq, created_at, buyer_name, product_code, product_name, category, price, operator`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, tx *models.Transaction) error {
	query :=
		`INSERT INTO transactions (created_at, buyer_name, buyer_key, product_code, product_name, category, price, operator)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING seq`

	err := r.db.QueryRowContext(ctx, query,
		tx.Timestamp, tx.BuyerName, BuyerKey(tx.BuyerName),
		tx.ProductCode, tx.ProductName, tx.Category, tx.Price, tx.Operator,
	).Scan(&tx.Seq)
	if err != nil {
		return common.Storage("insert transaction", err)
	}

	return nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT ` + pgColumns + ` FROM transactions ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.Storage("select transactions", err)
	}
	return scanPostgres(rows)
}

func (r *PostgresRepository) ListByBuyer(ctx context.Context, buyer string) ([]models.Transaction, error) {
	query := `SELECT ` + pgColumns + ` FROM transactions WHERE buyer_key = $1 ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, BuyerKey(buyer))
	if err != nil {
		return nil, common.Storage("select transactions by buyer", err)
	}
	return scanPostgres(rows)
}

func (r *PostgresRepository) Stats(ctx context.Context) (int64, int64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(price), 0) FROM transactions`

	var count, total int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count, &total); err != nil {
		return 0, 0, common.Storage("aggregate transactions", err)
	}

	return count, total, nil
}

func scanPostgres(rows *sql.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.Seq, &t.Timestamp, &t.BuyerName, &t.ProductCode,
			&t.ProductName, &t.Category, &t.Price, &t.Operator); err != nil {
			return nil, common.Storage("scan transaction", err)
		}
		t.Timestamp = t.Timestamp.UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Storage("iterate transactions", err)
	}

	return out, nil
}
