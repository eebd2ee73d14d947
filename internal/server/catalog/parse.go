package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/kasir/internal/server/models"
)

// fileEntry is one product in a products file. Both the Indonesian keys of
// the legacy data files and their English equivalents are accepted.
type fileEntry struct {
	Nama     string `json:"nama"`
	Name     string `json:"name"`
	Harga    *int64 `json:"harga"`
	Price    *int64 `json:"price"`
	Kategori string `json:"kategori"`
	Category string `json:"category"`
}

func (e fileEntry) product(code string) models.Product {
	p := models.Product{Code: code, Name: e.Name, Category: e.Category}
	if p.Name == "" {
		p.Name = e.Nama
	}
	if p.Category == "" {
		p.Category = e.Kategori
	}
	switch {
	case e.Price != nil:
		p.Price = *e.Price
	case e.Harga != nil:
		p.Price = *e.Harga
	}
	return p
}

// Parse reads a products file: a JSON object keyed by product code.
//
//	{"ML_86": {"nama": "Mobile Legends 86 Diamond", "harga": 20000, "kategori": "Game"}}
func Parse(r io.Reader) (*Catalog, error) {
	var raw map[string]fileEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode products: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("catalog: products file is empty")
	}

	products := make([]models.Product, 0, len(raw))
	for code, e := range raw {
		products = append(products, e.product(code))
	}

	return New(products)
}

// LoadFile parses the products file at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
