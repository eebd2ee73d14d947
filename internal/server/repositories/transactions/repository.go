// Package transactions is the append-only sales ledger.
package transactions

import (
	"context"

	"github.com/dmitrijs2005/kasir/internal/server/models"
	"golang.org/x/text/cases"
)

// Repository persists ledger records. Records are never updated or deleted;
// lists come back in insertion order.
type Repository interface {
	// Append stores tx and sets tx.Seq.
	Append(ctx context.Context, tx *models.Transaction) error
	ListAll(ctx context.Context) ([]models.Transaction, error)
	// ListByBuyer matches the buyer name exactly, ignoring case.
	ListByBuyer(ctx context.Context, buyer string) ([]models.Transaction, error)
	// Stats returns the record count and the sum of prices.
	Stats(ctx context.Context) (count int64, total int64, err error)
}

// BuyerKey is the case-folded form of a buyer name used for filtering.
// A Caser is stateful, so one is built per call.
func BuyerKey(name string) string {
	return cases.Fold().String(name)
}
