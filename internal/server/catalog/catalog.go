// Package catalog holds the read-only product catalog. A Catalog is built
// once at startup and never mutated, so it is safe for concurrent use.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/kasir/internal/server/models"
)

// DefaultCategory is assigned to products loaded without a category.
const DefaultCategory = "Other"

type Catalog struct {
	byCode map[string]models.Product
	sorted []models.Product
}

// New validates products and builds a catalog. Codes are normalised with
// NormalizeCode; empty codes, empty names, non-positive prices and duplicate
// codes are rejected.
func New(products []models.Product) (*Catalog, error) {
	c := &Catalog{byCode: make(map[string]models.Product, len(products))}

	for _, p := range products {
		p.Code = NormalizeCode(p.Code)
		p.Name = strings.TrimSpace(p.Name)
		p.Category = strings.TrimSpace(p.Category)

		switch {
		case p.Code == "":
			return nil, fmt.Errorf("catalog: empty product code")
		case p.Name == "":
			return nil, fmt.Errorf("catalog: product %s has no name", p.Code)
		case p.Price <= 0:
			return nil, fmt.Errorf("catalog: product %s has non-positive price %d", p.Code, p.Price)
		}
		if p.Category == "" {
			p.Category = DefaultCategory
		}
		if _, dup := c.byCode[p.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate product code %s", p.Code)
		}

		c.byCode[p.Code] = p
		c.sorted = append(c.sorted, p)
	}

	sort.Slice(c.sorted, func(i, j int) bool { return c.sorted[i].Code < c.sorted[j].Code })

	return c, nil
}

// Builtin returns the catalog used when no products source is configured.
func Builtin() *Catalog {
	c, err := New([]models.Product{
		{Code: "ML_86", Name: "Mobile Legends 86 Diamond", Price: 20000, Category: "Game"},
		{Code: "FF_140", Name: "Free Fire 140 Diamond", Price: 19000, Category: "Game"},
		{Code: "PULSA_20", Name: "Pulsa All Operator 20rb", Price: 22000, Category: "Pulsa"},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// NormalizeCode trims and upper-cases a product code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup finds a product by code, ignoring case and surrounding spaces.
func (c *Catalog) Lookup(code string) (models.Product, bool) {
	p, ok := c.byCode[NormalizeCode(code)]
	return p, ok
}

// List returns a copy of all products ordered by code.
func (c *Catalog) List() []models.Product {
	out := make([]models.Product, len(c.sorted))
	copy(out, c.sorted)
	return out
}

func (c *Catalog) Len() int {
	return len(c.sorted)
}
