package ranking

// Counter counts raw query strings. Keys are stored exactly as given; they
// are user search strings, not vocabulary terms. Counts only grow until the
// owner calls Reset.
//
// Counter is not safe for concurrent use.
type Counter struct {
	counts map[string]int64
	order  []string
	total  int64
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int64)}
}

// RecordQuery counts one occurrence of query.
func (c *Counter) RecordQuery(query string) {
	c.Add(query, 1)
}

// Add counts n occurrences of query. Non-positive n is ignored so counts
// never decrease.
func (c *Counter) Add(query string, n int64) {
	if n <= 0 {
		return
	}
	if _, seen := c.counts[query]; !seen {
		c.order = append(c.order, query)
	}
	c.counts[query] += n
	c.total += n
}

// Count returns how often query was recorded; 0 if never.
func (c *Counter) Count(query string) int64 {
	return c.counts[query]
}

// TopQueries returns the k most frequent queries, ties in first-recorded
// order.
func (c *Counter) TopQueries(k int) []Entry {
	return TopK(c.Entries(), k)
}

// Entries returns every query with its count in first-recorded order.
func (c *Counter) Entries() []Entry {
	entries := make([]Entry, 0, len(c.order))
	for _, q := range c.order {
		entries = append(entries, Entry{Key: q, Score: c.counts[q]})
	}
	return entries
}

// Len returns the number of distinct queries.
func (c *Counter) Len() int {
	return len(c.order)
}

// Total returns the number of recorded occurrences across all queries.
func (c *Counter) Total() int64 {
	return c.total
}

// Reset forgets every query.
func (c *Counter) Reset() {
	c.counts = make(map[string]int64)
	c.order = nil
	c.total = 0
}
