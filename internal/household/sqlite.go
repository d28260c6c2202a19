package household

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteProvider reads households from a table in a SQLite database, opened
// read-only. The table has columns Year, ID, Weight, Urban_Rural and a
// nullable CBI_Sample.
type SQLiteProvider struct {
	db    *sql.DB
	table string
}

// NewSQLite opens the database at path read-only.
func NewSQLite(path, table string) (*SQLiteProvider, error) {
	if table == "" {
		table = "households"
	}
	if !identRe.MatchString(table) {
		return nil, eris.Errorf("sqlite: invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: exec PRAGMA busy_timeout")
	}
	return &SQLiteProvider{db: db, table: table}, nil
}

// Close closes the database.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

// Households implements Provider.
func (p *SQLiteProvider) Households(ctx context.Context) ([]Household, error) {
	query := fmt.Sprintf(`SELECT Year, ID, Weight, Urban_Rural, CBI_Sample FROM %s ORDER BY Year, ID`, p.table)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s", p.table)
	}
	defer rows.Close()

	var hs []Household
	for rows.Next() {
		var (
			h      Household
			urban  sql.NullString
			sample sql.NullBool
		)
		if err := rows.Scan(&h.Year, &h.ID, &h.Weight, &urban, &sample); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan household")
		}
		h.UrbanRural = urban.String
		h.CBISample = tabular.Bit(sample.Valid && sample.Bool)
		hs = append(hs, h)
	}
	return hs, eris.Wrap(rows.Err(), "sqlite: iterate households")
}
