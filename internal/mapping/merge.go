package mapping

// MergeValues applies pulled source values to the existing value lists.
// The merge is asymmetric: a category the external system actually
// populated is replaced wholesale with the deduplicated pulled list, while
// categories the pull returned empty keep their manually curated values.
// Returns the merged lists and the categories that were replaced.
func MergeValues(existing, pulled map[Category][]string) (map[Category][]string, []Category) {
	merged := make(map[Category][]string, len(existing))
	for category, values := range existing {
		merged[category] = values
	}

	replaced := make([]Category, 0, len(pulled))
	for _, category := range CategoryOrder {
		values, ok := pulled[category]
		if !ok || len(values) == 0 {
			continue
		}
		merged[category] = dedup(values)
		replaced = append(replaced, category)
	}

	return merged, replaced
}

// dedup removes duplicates while preserving first-seen order.
func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
