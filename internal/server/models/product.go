package models

// Product is a catalog entry. Price is in the smallest currency unit.
type Product struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}
