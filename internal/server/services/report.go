package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kasir/internal/server/repositories/repomanager"
)

// Report is a snapshot of sales aggregates.
type Report struct {
	Count   int64   `json:"count"`
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
}

// ReportService derives aggregates from the ledger on every call.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager) *ReportService {
	return &ReportService{db: db, repomanager: m}
}

// Report returns count, total and average from a single read of the ledger.
// The average is 0 when there are no transactions.
func (s *ReportService) Report(ctx context.Context) (*Report, error) {
	count, total, err := s.repomanager.Transactions(s.db).Stats(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{Count: count, Total: total}
	if count > 0 {
		r.Average = float64(total) / float64(count)
	}
	return r, nil
}

func (s *ReportService) Count(ctx context.Context) (int64, error) {
	r, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	return r.Count, nil
}

func (s *ReportService) TotalRevenue(ctx context.Context) (int64, error) {
	r, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	return r.Total, nil
}

func (s *ReportService) AverageRevenue(ctx context.Context) (float64, error) {
	r, err := s.Report(ctx)
	if err != nil {
		return 0, err
	}
	return r.Average, nil
}
