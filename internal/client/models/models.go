// Package models holds the client-side view of the kasir API payloads.
package models

import "time"

type Product struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

type Transaction struct {
	Timestamp   time.Time `json:"timestamp"`
	BuyerName   string    `json:"buyer_name"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Operator    string    `json:"operator"`
}

type Report struct {
	Count   int64   `json:"count"`
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
