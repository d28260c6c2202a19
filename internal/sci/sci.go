// Package sci computes survey-weighted yearly aggregates of household
// indicators over three nested populations: all households, urban
// households, and urban households in the reference (CBI) sample.
package sci

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/hbs-summary/internal/household"
	"github.com/sells-group/hbs-summary/internal/tabular"
)

// Observation is one household's indicator value. Boolean indicators are
// given as 0/1 so that their weighted mean is a proportion.
type Observation struct {
	Year  int
	ID    int64
	Value tabular.Float
}

// Bool returns a 0/1 observation value.
func Bool(b bool) tabular.Float {
	if b {
		return tabular.Some(1)
	}
	return tabular.Some(0)
}

// Row is the weighted aggregate of one year.
type Row struct {
	Year       int           `csv:"Year"`
	All        tabular.Float `csv:"SCI_All"`
	Urban      tabular.Float `csv:"SCI_Urban"`
	CBISample  tabular.Float `csv:"SCI_CBI_Sample"`
	Population Population    `csv:"-"`
}

// Population counts the households behind each aggregate of a row.
type Population struct {
	All       int
	Urban     int
	CBISample int
}

// subset accumulates values and weights of one population.
type subset struct {
	x, w []float64
}

func (s *subset) add(x, w float64) {
	s.x = append(s.x, x)
	s.w = append(s.w, w)
}

// mean is sum(w*x)/sum(w). Empty subsets, zero total weight and a zero
// result are all null.
func (s *subset) mean() tabular.Float {
	if len(s.x) == 0 || floats.Sum(s.w) == 0 {
		return tabular.Null()
	}
	m := stat.Mean(s.x, s.w)
	if m == 0 {
		return tabular.Null()
	}
	return tabular.Some(m)
}

type yearSubsets struct {
	all, urban, sample subset
}

// Aggregate joins observations to households on (Year, ID) and computes the
// weighted mean of each year for the three populations. Every household
// year gets a row; observations with a null value or no matching household
// are ignored.
func Aggregate(obs []Observation, households []household.Household) []Row {
	idx := household.Index(households)

	years := make(map[int]*yearSubsets)
	for _, h := range households {
		if _, ok := years[h.Year]; !ok {
			years[h.Year] = &yearSubsets{}
		}
	}

	for _, o := range obs {
		if !o.Value.Valid {
			continue
		}
		h, ok := idx[household.Key{Year: o.Year, ID: o.ID}]
		if !ok {
			continue
		}
		ys := years[o.Year]
		ys.all.add(o.Value.V, h.Weight)
		if h.IsUrban() {
			ys.urban.add(o.Value.V, h.Weight)
			if h.InCBISample() {
				ys.sample.add(o.Value.V, h.Weight)
			}
		}
	}

	rows := make([]Row, 0, len(years))
	for year, ys := range years {
		rows = append(rows, Row{
			Year:      year,
			All:       ys.all.mean(),
			Urban:     ys.urban.mean(),
			CBISample: ys.sample.mean(),
			Population: Population{
				All:       len(ys.all.x),
				Urban:     len(ys.urban.x),
				CBISample: len(ys.sample.x),
			},
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	return rows
}

// Scale multiplies every non-null aggregate by f, e.g. 100 for percentages.
func Scale(rows []Row, f float64) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		r.All = scale(r.All, f)
		r.Urban = scale(r.Urban, f)
		r.CBISample = scale(r.CBISample, f)
		out[i] = r
	}
	return out
}

func scale(v tabular.Float, f float64) tabular.Float {
	if !v.Valid {
		return v
	}
	return tabular.Some(v.V * f)
}

// Share divides each aggregate of num by the matching aggregate of den for
// the same year and multiplies by 100. Years missing from den are dropped.
func Share(num, den []Row) []Row {
	byYear := make(map[int]Row, len(den))
	for _, r := range den {
		byYear[r.Year] = r
	}

	var out []Row
	for _, n := range num {
		d, ok := byYear[n.Year]
		if !ok {
			continue
		}
		out = append(out, Row{
			Year:       n.Year,
			All:        ratio(n.All, d.All),
			Urban:      ratio(n.Urban, d.Urban),
			CBISample:  ratio(n.CBISample, d.CBISample),
			Population: n.Population,
		})
	}
	return out
}

func ratio(n, d tabular.Float) tabular.Float {
	if !n.Valid || !d.Valid || d.V == 0 {
		return tabular.Null()
	}
	return tabular.Some(n.V / d.V * 100)
}
