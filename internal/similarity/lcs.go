package similarity

// CommonSubstring is the longest run of characters shared by two texts, with its
// rune offsets in the first argument. Offsets anchor match spans in query text.
type CommonSubstring struct {
	Text  string
	Start int
	End   int
}

// LongestCommonSubstring runs the classic O(len(a)*len(b)) dynamic-programming
// scan over runes. Ties keep the earliest occurrence in a.
func LongestCommonSubstring(a, b string) CommonSubstring {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return CommonSubstring{}
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	maxLen := 0
	endPos := 0

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > maxLen {
					maxLen = curr[j]
					endPos = i
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	start := endPos - maxLen
	return CommonSubstring{
		Text:  string(ra[start:endPos]),
		Start: start,
		End:   endPos,
	}
}
