package similarity

// Jaccard computes |A∩B| / |A∪B| over two string sets. Two empty sets are
// identical (1.0); exactly one empty set shares nothing (0.0).
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	union := make(map[string]struct{}, len(a)+len(b))
	for _, elem := range a {
		union[elem] = struct{}{}
	}

	intersection := 0
	for _, elem := range b {
		if _, ok := union[elem]; ok {
			intersection++
		}
		union[elem] = struct{}{}
	}

	return float64(intersection) / float64(len(union))
}

// Intersection returns the elements common to both sets, in a's order.
func Intersection(a []string, b map[string]struct{}) []string {
	common := make([]string, 0)
	for _, elem := range a {
		if _, ok := b[elem]; ok {
			common = append(common, elem)
		}
	}
	return common
}
