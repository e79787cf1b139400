package mapping_test

import (
	"testing"

	"github.com/digital-directions/stagegate/internal/mapping"
)

func TestDefaultSourceValuesCoverEveryCategory(t *testing.T) {
	values := mapping.DefaultSourceValues()
	for _, category := range mapping.CategoryOrder {
		if _, ok := values[category]; !ok {
			t.Errorf("category %s missing from default source values", category)
		}
	}
	if len(values[mapping.CategoryLeaveTypes]) == 0 {
		t.Error("leave types should have stock source values")
	}
	// Locations and pay categories start empty: they are only meaningful
	// once pulled from the source system or curated by hand.
	if len(values[mapping.CategoryLocations]) != 0 {
		t.Error("locations should start empty")
	}
}

func TestDefaultTargetValuesPerPayrollSystem(t *testing.T) {
	for _, system := range []string{"keypay", "myob", "deputy"} {
		t.Run(system, func(t *testing.T) {
			values := mapping.DefaultTargetValues(system)
			if len(values) == 0 {
				t.Fatalf("no default target values for %s", system)
			}
			if len(values[mapping.CategoryLeaveTypes]) == 0 {
				t.Errorf("%s has no leave type targets", system)
			}
		})
	}
}

func TestDefaultTargetValuesUnknownSystemEmpty(t *testing.T) {
	if values := mapping.DefaultTargetValues("quickbooks"); len(values) != 0 {
		t.Errorf("unknown system values = %v, want empty", values)
	}
}

func TestDefaultSuggestionsCoverStockLeaveTypes(t *testing.T) {
	sources := mapping.DefaultSourceValues()[mapping.CategoryLeaveTypes]
	targets := mapping.DefaultTargetValues("keypay")[mapping.CategoryLeaveTypes]

	suggestions := mapping.SuggestMatches(mapping.CategoryLeaveTypes, sources, targets)

	bysource := make(map[string]string, len(suggestions))
	for _, s := range suggestions {
		bysource[s.SourceValue] = s.TargetValue
	}
	if bysource["Annual Leave"] != "Annual" {
		t.Errorf("Annual Leave suggested %q, want Annual", bysource["Annual Leave"])
	}
	if bysource["Personal Leave"] != "Sick/Personal" {
		t.Errorf("Personal Leave suggested %q, want Sick/Personal", bysource["Personal Leave"])
	}
}
