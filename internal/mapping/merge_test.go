package mapping_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/digital-directions/stagegate/internal/mapping"
)

func TestMergeValuesReplacesPopulatedCategories(t *testing.T) {
	existing := map[mapping.Category][]string{
		mapping.CategoryLeaveTypes: {"Annual Leave", "Personal Leave"},
		mapping.CategoryLocations:  {"Head Office"},
	}
	pulled := map[mapping.Category][]string{
		mapping.CategoryLocations: {"Sydney", "Melbourne"},
	}

	merged, replaced := mapping.MergeValues(existing, pulled)

	want := map[mapping.Category][]string{
		mapping.CategoryLeaveTypes: {"Annual Leave", "Personal Leave"},
		mapping.CategoryLocations:  {"Sydney", "Melbourne"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged mismatch (-want +got):\n%s", diff)
	}
	if len(replaced) != 1 || replaced[0] != mapping.CategoryLocations {
		t.Errorf("replaced = %v, want [locations]", replaced)
	}
}

func TestMergeValuesKeepsCuratedWhenPullEmpty(t *testing.T) {
	existing := map[mapping.Category][]string{
		mapping.CategoryLeaveTypes: {"Annual Leave"},
	}
	pulled := map[mapping.Category][]string{
		mapping.CategoryLeaveTypes: {},
	}

	merged, replaced := mapping.MergeValues(existing, pulled)

	if diff := cmp.Diff(existing, merged); diff != "" {
		t.Errorf("merged mismatch (-want +got):\n%s", diff)
	}
	if len(replaced) != 0 {
		t.Errorf("replaced = %v, want none", replaced)
	}
}

func TestMergeValuesDeduplicatesPulled(t *testing.T) {
	pulled := map[mapping.Category][]string{
		mapping.CategoryPayCategories: {"Base Salary", "Overtime", "Base Salary", "Overtime"},
	}

	merged, replaced := mapping.MergeValues(nil, pulled)

	want := []string{"Base Salary", "Overtime"}
	if diff := cmp.Diff(want, merged[mapping.CategoryPayCategories]); diff != "" {
		t.Errorf("dedup mismatch (-want +got):\n%s", diff)
	}
	if len(replaced) != 1 {
		t.Errorf("replaced = %v, want one category", replaced)
	}
}

func TestMergeValuesReplacedFollowsCategoryOrder(t *testing.T) {
	pulled := map[mapping.Category][]string{
		mapping.CategoryPayCategories: {"Base Salary"},
		mapping.CategoryLeaveTypes:    {"Annual Leave"},
		mapping.CategoryLocations:     {"Sydney"},
	}

	_, replaced := mapping.MergeValues(nil, pulled)

	want := []mapping.Category{
		mapping.CategoryLeaveTypes,
		mapping.CategoryLocations,
		mapping.CategoryPayCategories,
	}
	if diff := cmp.Diff(want, replaced); diff != "" {
		t.Errorf("replaced order mismatch (-want +got):\n%s", diff)
	}
}
