package mapping

// DefaultSourceValues returns the stock HR-side value lists a new
// configuration starts with. A pull from the source system replaces the
// categories it can populate.
func DefaultSourceValues() map[Category][]string {
	return map[Category][]string{
		CategoryLeaveTypes: {
			"Annual Leave",
			"Personal Leave",
			"Long Service Leave",
			"Parental Leave",
			"Unpaid Leave",
		},
		CategoryLocations: {},
		CategoryPayPeriods: {
			"Weekly",
			"Fortnightly",
			"Monthly",
		},
		CategoryPayFrequencies: {
			"Weekly",
			"Fortnightly",
			"Monthly",
		},
		CategoryEmploymentContracts: {
			"Full time",
			"Part time",
			"Casual",
			"Fixed term",
		},
		CategoryPayCategories: {},
		CategoryTerminationReasons: {
			"Resignation",
			"Redundancy",
			"End of contract",
			"Dismissal",
			"Retirement",
		},
	}
}

// DefaultTargetValues returns the payroll-side value lists for the given
// platform. Unknown platforms get empty lists so target values must be
// curated manually.
func DefaultTargetValues(payrollSystem string) map[Category][]string {
	switch payrollSystem {
	case "keypay":
		return map[Category][]string{
			CategoryLeaveTypes: {
				"Annual",
				"Sick/Personal",
				"Long Service",
				"Paid Parental",
				"Leave Without Pay",
			},
			CategoryLocations:  {},
			CategoryPayPeriods: {"Weekly", "Fortnightly", "Monthly"},
			CategoryPayFrequencies: {
				"Weekly",
				"Fortnightly",
				"Monthly",
			},
			CategoryEmploymentContracts: {
				"Full Time",
				"Part Time",
				"Casual",
			},
			CategoryPayCategories: {
				"Permanent Ordinary Hours",
				"Casual Ordinary Hours",
				"Overtime 1.5x",
				"Overtime 2x",
			},
			CategoryTerminationReasons: {
				"V - Voluntary cessation",
				"I - Ill health",
				"D - Deceased",
				"R - Redundancy",
				"F - Dismissal",
				"C - Contract cessation",
				"T - Transfer",
			},
		}
	case "myob":
		return map[Category][]string{
			CategoryLeaveTypes: {
				"Holiday Leave Accrual",
				"Personal Leave Accrual",
				"Long Service Leave Accrual",
			},
			CategoryLocations:  {},
			CategoryPayPeriods: {"Weekly", "Fortnightly", "Twice a month", "Monthly"},
			CategoryPayFrequencies: {
				"Weekly",
				"Fortnightly",
				"Monthly",
			},
			CategoryEmploymentContracts: {
				"Individual",
				"Labour Hire",
				"Other",
			},
			CategoryPayCategories: {
				"Base Hourly",
				"Base Salary",
				"Overtime (1.5x)",
				"Overtime (2x)",
			},
			CategoryTerminationReasons: {},
		}
	case "deputy":
		return map[Category][]string{
			CategoryLeaveTypes: {
				"Annual Holiday",
				"Sick",
				"Long Service",
			},
			CategoryLocations:  {},
			CategoryPayPeriods: {"Weekly", "Fortnightly", "Monthly"},
			CategoryPayFrequencies: {
				"Weekly",
				"Fortnightly",
				"Monthly",
			},
			CategoryEmploymentContracts: {
				"Permanent Full Time",
				"Permanent Part Time",
				"Casual",
			},
			CategoryPayCategories: {},
			CategoryTerminationReasons: {},
		}
	default:
		return map[Category][]string{}
	}
}
