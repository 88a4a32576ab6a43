// Package ranking orders scored keys and tracks how often search queries are
// issued. Every ranking in the service (vocabulary frequency, recorded
// searches, page word counts) goes through Rank/TopK so the ordering rules
// live in one place: score descending, ties kept in input order.
package ranking

import "sort"

// Entry is one ranked key.
type Entry struct {
	Key   string `json:"key"`
	Score int64  `json:"score"`
}

// Rank returns a copy of items sorted by score descending. The sort is
// stable, so entries with equal scores keep their relative input order.
func Rank(items []Entry) []Entry {
	ranked := make([]Entry, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// TopK returns at most k entries of Rank(items). k <= 0 yields an empty
// slice; k beyond len(items) yields all of them.
func TopK(items []Entry, k int) []Entry {
	if k <= 0 {
		return []Entry{}
	}
	ranked := Rank(items)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
