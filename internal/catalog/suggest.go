package catalog

const DefaultSuggestLimit = 5

// Suggest returns at most limit products matching every query term, best
// rated first.
func Suggest(products []Product, q string, limit int) []Summary {
	ts := terms(q)
	if len(ts) == 0 {
		return []Summary{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	matched := make([]Product, 0, limit)
	for _, p := range products {
		if matchesTerms(p, ts) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, SortRating)

	out := make([]Summary, 0, min(limit, len(matched)))
	for _, p := range matched {
		if len(out) == limit {
			break
		}
		out = append(out, p.Summary())
	}
	return out
}
