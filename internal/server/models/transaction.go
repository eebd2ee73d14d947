// Package models holds the records persisted by the repositories and
// returned by the services.
package models

import "time"

// Transaction is one ledger record. Product fields are copied from the
// catalog when the record is created and never follow later catalog changes.
type Transaction struct {
	// Seq is the storage sequence number; it only orders the ledger.
	Seq         int64     `json:"-" db:"seq"`
	Timestamp   time.Time `json:"timestamp" db:"created_at"`
	BuyerName   string    `json:"buyer_name" db:"buyer_name"`
	ProductCode string    `json:"product_code" db:"product_code"`
	ProductName string    `json:"product_name" db:"product_name"`
	Category    string    `json:"category" db:"category"`
	Price       int64     `json:"price" db:"price"`
	Operator    string    `json:"operator" db:"operator"`
}
