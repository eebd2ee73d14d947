// Package services contains the server-side business logic: registration
// and login, the transaction creation flow and the sales reports.
package services

import (
	"time"

	"github.com/dmitrijs2005/kasir/internal/server/models"
)

// Recorder receives business events for metrics. A nil Recorder is allowed.
type Recorder interface {
	TransactionRecorded(category string, price int64)
	LoginAttempt(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) TransactionRecorded(string, int64) {}
func (nopRecorder) LoginAttempt(bool)                 {}

func orNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// utcNow is the default clock. Stored timestamps are truncated to
// microseconds, the finest precision every supported database keeps.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ProductLookup resolves product codes for the transaction flow.
type ProductLookup interface {
	Lookup(code string) (models.Product, bool)
	List() []models.Product
}
