package fuzzy

// Levenshtein returns the edit distance between a and b: the fewest
// single-rune insertions, deletions and substitutions that turn a into b.
//
// It fills the classic (len(a)+1)x(len(b)+1) table row by row, keeping only
// the previous row. Cost is O(len(a)*len(b)).
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // delete
				curr[j-1]+1,    // insert
				prev[j-1]+cost, // substitute or match
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
