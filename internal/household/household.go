// Package household provides per-household survey weights and attributes
// used to weight indicator values.
package household

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

// UrbanLabel is the Urban_Rural value of urban households.
const UrbanLabel = "Urban"

// Household is one surveyed household in one year.
type Household struct {
	Year       int         `csv:"Year"`
	ID         int64       `csv:"ID"`
	Weight     float64     `csv:"Weight"`
	UrbanRural string      `csv:"Urban_Rural"`
	CBISample  tabular.Bit `csv:"CBI_Sample"` // blank before the sample existed
}

// IsUrban reports whether the household is urban.
func (h Household) IsUrban() bool {
	return strings.EqualFold(strings.TrimSpace(h.UrbanRural), UrbanLabel)
}

// InCBISample reports whether the household is urban and in the reference sample.
func (h Household) InCBISample() bool {
	return h.IsUrban() && bool(h.CBISample)
}

// Key identifies a household within a survey year.
type Key struct {
	Year int
	ID   int64
}

// Provider loads household attributes.
type Provider interface {
	Households(ctx context.Context) ([]Household, error)
}

// Index maps (Year, ID) to households. A repeated key keeps the last one.
func Index(hs []Household) map[Key]Household {
	m := make(map[Key]Household, len(hs))
	for _, h := range hs {
		m[Key{Year: h.Year, ID: h.ID}] = h
	}
	return m
}

// NewProvider returns the provider for driver ("csv" or "sqlite").
// For csv, path may list several files separated by commas; their rows are
// concatenated.
func NewProvider(driver, path, table string) (Provider, error) {
	switch strings.ToLower(driver) {
	case "csv", "":
		return NewCSV(strings.Split(path, ",")...), nil
	case "sqlite":
		return NewSQLite(path, table)
	default:
		return nil, eris.Errorf("household: unknown driver %q (valid: csv, sqlite)", driver)
	}
}
