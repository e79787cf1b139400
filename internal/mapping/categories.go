package mapping

// Category identifies one reconciled lookup-value list.
type Category string

const (
	CategoryLeaveTypes          Category = "leave_types"
	CategoryLocations           Category = "locations"
	CategoryPayPeriods          Category = "pay_periods"
	CategoryPayFrequencies      Category = "pay_frequencies"
	CategoryEmploymentContracts Category = "employment_contracts"
	CategoryPayCategories       Category = "pay_categories"
	CategoryTerminationReasons  Category = "termination_reasons"
)

// CategoryOrder fixes the display and export order of categories.
var CategoryOrder = []Category{
	CategoryLeaveTypes,
	CategoryLocations,
	CategoryPayPeriods,
	CategoryPayFrequencies,
	CategoryEmploymentContracts,
	CategoryPayCategories,
	CategoryTerminationReasons,
}

var categoryLabels = map[Category]string{
	CategoryLeaveTypes:          "Leave Types",
	CategoryLocations:           "Locations",
	CategoryPayPeriods:          "Pay Periods",
	CategoryPayFrequencies:      "Pay Frequencies",
	CategoryEmploymentContracts: "Employment Contracts",
	CategoryPayCategories:       "Pay Categories",
	CategoryTerminationReasons:  "Termination Reasons",
}

// ParseCategory validates a category value.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// Label returns the human-readable name for the category.
func (c Category) Label() string {
	return categoryLabels[c]
}
