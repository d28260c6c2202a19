// Package metadata loads the static mappings that turn drifting source labels
// into canonical table and column names.
package metadata

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/hbs-summary/internal/sanitize"
)

const (
	tableNamesFile  = "table_names.yaml"
	columnNamesFile = "column_names.yaml"
	generalGroup    = "_general"
)

var (
	// ErrUnknownColumnHeader means a header cell has no canonical name in the
	// mapping for its group and version. The mapping must be updated.
	ErrUnknownColumnHeader = eris.New("metadata: unknown column header")

	// ErrNoVersion means the year precedes every version of a group mapping.
	ErrNoVersion = eris.New("metadata: no mapping version for year")

	// ErrConflictingTable means two table name keys sanitize to the same
	// string but name different canonical tables.
	ErrConflictingTable = eris.New("metadata: conflicting table name")

	// ErrUnknownGroup means the indicator group is absent from the mapping.
	ErrUnknownGroup = eris.New("metadata: unknown indicator group")
)

// Store holds the table-name and column-name mappings. It is read-only after Load.
type Store struct {
	tables map[string]string
	groups map[string][]version
}

// version is the column mapping in effect from year From onward.
type version struct {
	From    int
	Columns map[string]string
}

// Load reads table_names.yaml and column_names.yaml from dir.
func Load(dir string) (*Store, error) {
	tablesData, err := os.ReadFile(filepath.Join(dir, tableNamesFile))
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: read %s", tableNamesFile)
	}
	columnsData, err := os.ReadFile(filepath.Join(dir, columnNamesFile))
	if err != nil {
		return nil, eris.Wrapf(err, "metadata: read %s", columnNamesFile)
	}
	return Parse(tablesData, columnsData)
}

// Parse builds a Store from the two YAML documents.
func Parse(tablesYAML, columnsYAML []byte) (*Store, error) {
	var rawTables map[string]string
	if err := yaml.Unmarshal(tablesYAML, &rawTables); err != nil {
		return nil, eris.Wrap(err, "metadata: parse table names")
	}

	s := &Store{
		tables: make(map[string]string, len(rawTables)),
		groups: make(map[string][]version),
	}
	for source, canonical := range rawTables {
		key := sanitize.Text(source)
		if prev, ok := s.tables[key]; ok && prev != canonical {
			return nil, eris.Wrapf(ErrConflictingTable, "%q maps to both %q and %q", key, prev, canonical)
		}
		s.tables[key] = canonical
	}

	var rawGroups map[string]yaml.Node
	if err := yaml.Unmarshal(columnsYAML, &rawGroups); err != nil {
		return nil, eris.Wrap(err, "metadata: parse column names")
	}

	var general map[string]string
	if node, ok := rawGroups[generalGroup]; ok {
		if err := node.Decode(&general); err != nil {
			return nil, eris.Wrap(err, "metadata: parse _general columns")
		}
		delete(rawGroups, generalGroup)
	}

	for name, node := range rawGroups {
		versions, err := parseGroup(name, &node)
		if err != nil {
			return nil, err
		}
		for i := range versions {
			for k, v := range general {
				versions[i].Columns[sanitize.Header(k)] = v
			}
		}
		s.groups[name] = versions
	}

	return s, nil
}

// parseGroup reads either a flat header->name mapping or a mapping keyed by
// the first year each version applies to.
func parseGroup(name string, node *yaml.Node) ([]version, error) {
	if node.Kind != yaml.MappingNode {
		return nil, eris.Errorf("metadata: group %q must be a mapping", name)
	}

	flat := make(map[string]string)
	var versions []version
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			flat[sanitize.Header(key.Value)] = val.Value
		case yaml.MappingNode:
			from, err := strconv.Atoi(key.Value)
			if err != nil {
				return nil, eris.Wrapf(err, "metadata: group %q version key %q is not a year", name, key.Value)
			}
			var cols map[string]string
			if err := val.Decode(&cols); err != nil {
				return nil, eris.Wrapf(err, "metadata: group %q version %d", name, from)
			}
			v := version{From: from, Columns: make(map[string]string, len(cols))}
			for k, c := range cols {
				v.Columns[sanitize.Header(k)] = c
			}
			versions = append(versions, v)
		default:
			return nil, eris.Errorf("metadata: group %q key %q has unsupported value", name, key.Value)
		}
	}

	switch {
	case len(versions) > 0 && len(flat) > 0:
		return nil, eris.Errorf("metadata: group %q mixes versioned and flat columns", name)
	case len(versions) == 0:
		return []version{{From: math.MinInt, Columns: flat}}, nil
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].From < versions[j].From })
	return versions, nil
}

// CanonicalTable maps a source table name to its canonical name. The name is
// sanitized before lookup. ok is false for tables that are not mapped.
func (s *Store) CanonicalTable(name string) (string, bool) {
	c, ok := s.tables[sanitize.Text(name)]
	return c, ok
}

// Groups returns the indicator group names, sorted.
func (s *Store) Groups() []string {
	names := make([]string, 0, len(s.groups))
	for name := range s.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the header->canonical column mapping of group in effect
// for year.
func (s *Store) Columns(group string, year int) (map[string]string, error) {
	versions, ok := s.groups[group]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownGroup, "group %q", group)
	}

	froms := make([]int, len(versions))
	for i, v := range versions {
		froms[i] = v.From
	}
	i, ok := Floor(froms, year)
	if !ok {
		return nil, eris.Wrapf(ErrNoVersion, "group %q year %d (first version %d)", group, year, froms[0])
	}
	return versions[i].Columns, nil
}

// ResolveHeader maps a raw header row of group in year to canonical column names.
func (s *Store) ResolveHeader(group string, year int, header []string) ([]string, error) {
	cols, err := s.Columns(group, year)
	if err != nil {
		return nil, err
	}
	out, err := ResolveHeader(header, cols)
	if err != nil {
		return nil, eris.Wrapf(err, "group %q year %d", group, year)
	}
	return out, nil
}

// ResolveHeader maps each raw header cell through columns after header
// cleaning. Any cell without a mapping fails with ErrUnknownColumnHeader.
func ResolveHeader(header []string, columns map[string]string) ([]string, error) {
	out := make([]string, len(header))
	for i, cell := range header {
		canonical, ok := columns[sanitize.Header(cell)]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownColumnHeader, "column %d %q", i, cell)
		}
		out[i] = canonical
	}
	return out, nil
}

// Floor returns the index of the largest element of sorted that is <= v.
// Equal keys resolve to the exact match. ok is false when v precedes every
// element.
func Floor(sorted []int, v int) (int, bool) {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
	if i == 0 {
		return 0, false
	}
	return i - 1, true
}
