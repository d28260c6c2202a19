package compare

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/sells-group/hbs-summary/internal/tabular"
)

// Agreement summarizes how closely SCI_All tracks the CBI series of one
// comparison table over the years where both are present.
type Agreement struct {
	Years       int
	Overlap     int
	MeanAbsGap  tabular.Float
	MaxAbsGap   tabular.Float
	Correlation tabular.Float
}

// Summarize computes the agreement statistics of rows. Correlation needs at
// least two overlapping years and non-constant series; otherwise it is null.
func Summarize(rows []Row) (Agreement, error) {
	a := Agreement{Years: len(rows)}

	var cbi, all, gaps stats.Float64Data
	for _, r := range rows {
		if !r.CBI.Valid || !r.All.Valid {
			continue
		}
		cbi = append(cbi, r.CBI.V)
		all = append(all, r.All.V)
		gaps = append(gaps, math.Abs(r.CBI.V-r.All.V))
	}
	a.Overlap = len(gaps)
	if a.Overlap == 0 {
		return a, nil
	}

	mean, err := stats.Mean(gaps)
	if err != nil {
		return a, err
	}
	a.MeanAbsGap = tabular.Some(mean)

	peak, err := stats.Max(gaps)
	if err != nil {
		return a, err
	}
	a.MaxAbsGap = tabular.Some(peak)

	if a.Overlap < 2 {
		return a, nil
	}
	sdCBI, _ := stats.StandardDeviationPopulation(cbi)
	sdAll, _ := stats.StandardDeviationPopulation(all)
	if sdCBI == 0 || sdAll == 0 {
		return a, nil
	}
	r, err := stats.Correlation(cbi, all)
	if err != nil {
		return a, err
	}
	a.Correlation = tabular.Some(r)
	return a, nil
}
