package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/dmitrijs2005/kasir/internal/server/repositories/repomanager"
)

// TransactionService runs the purchase flow against the catalog and the
// ledger.
type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	catalog     ProductLookup
	recorder    Recorder
	now         func() time.Time
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager, catalog ProductLookup, r Recorder) *TransactionService {
	return &TransactionService{
		db:          db,
		repomanager: m,
		catalog:     catalog,
		recorder:    orNop(r),
		now:         utcNow,
	}
}

// Create records a purchase of productCode by buyerName, made by operator.
//
// The operator and the trimmed buyer name must not be empty
// (common.ErrInvalidInput). The code is matched case-insensitively; an
// unknown code yields common.ErrProductNotFound. Product fields are copied
// into the record so later catalog changes never alter history.
func (s *TransactionService) Create(ctx context.Context, operator, buyerName, productCode string) (*models.Transaction, error) {
	if operator == "" {
		return nil, common.ErrInvalidInput
	}
	buyerName = strings.TrimSpace(buyerName)
	if buyerName == "" {
		return nil, common.ErrInvalidInput
	}

	product, ok := s.catalog.Lookup(productCode)
	if !ok {
		return nil, common.ErrProductNotFound
	}

	tx := &models.Transaction{
		Timestamp:   s.now(),
		BuyerName:   buyerName,
		ProductCode: product.Code,
		ProductName: product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Operator:    operator,
	}
	if err := s.repomanager.Transactions(s.db).Append(ctx, tx); err != nil {
		return nil, err
	}
	s.recorder.TransactionRecorded(tx.Category, tx.Price)

	return tx, nil
}

// ListAll returns the whole ledger in insertion order.
func (s *TransactionService) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return s.repomanager.Transactions(s.db).ListAll(ctx)
}

// ListByBuyer returns the records whose buyer name equals buyer ignoring
// case, in insertion order.
func (s *TransactionService) ListByBuyer(ctx context.Context, buyer string) ([]models.Transaction, error) {
	return s.repomanager.Transactions(s.db).ListByBuyer(ctx, strings.TrimSpace(buyer))
}

// Products returns the catalog ordered by code.
func (s *TransactionService) Products() []models.Product {
	return s.catalog.List()
}
