package household

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

// CSVProvider reads households from one or more headered CSV files. Files
// may omit CBI_Sample.
type CSVProvider struct {
	paths []string
}

// NewCSV creates a CSVProvider.
func NewCSV(paths ...string) *CSVProvider {
	var clean []string
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	return &CSVProvider{paths: clean}
}

// Households implements Provider.
func (p *CSVProvider) Households(ctx context.Context) ([]Household, error) {
	if len(p.paths) == 0 {
		return nil, eris.New("household: no csv files configured")
	}
	var all []Household
	for _, path := range p.paths {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "household: context cancelled")
		}
		var hs []Household
		if err := tabular.ReadRecords(path, &hs); err != nil {
			return nil, eris.Wrap(err, "household: read csv")
		}
		all = append(all, hs...)
	}
	return all, nil
}
