package compare

import "strings"

// Units of comparison values.
const (
	LabelHouseholdSize = "Average Household Size"
	LabelHouseholds    = "Percentage of Households (%)"
	LabelIndividuals   = "Percentage of Individuals (%)"
	LabelExpenditures  = "Percentage of Expenditures (%)"
	LabelTomans        = "Thousand Tomans"
)

// percentOfHouseholds lists tables whose values are shares of households.
var percentOfHouseholds = map[string]bool{
	"housing_rooms":                                true,
	"household_distribution_by_members":            true,
	"household_distribution_by_number_of_employed": true,
	"household_appliances_access":                  true,
	"household_facilities_access":                  true,
}

// AxisLabel returns the unit label of a comparison table and the divisor that
// converts its stored values into that unit. Monetary tables are stored in
// rials and shown in thousand tomans.
func AxisLabel(table string) (label string, divisor float64) {
	switch {
	case table == "household_size":
		return LabelHouseholdSize, 1
	case percentOfHouseholds[table]:
		return LabelHouseholds, 1
	case strings.Contains(table, "6_plus"):
		return LabelIndividuals, 1
	case strings.Contains(table, "share"):
		return LabelExpenditures, 1
	}
	return LabelTomans, 1e4
}
