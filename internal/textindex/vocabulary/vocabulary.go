// Package vocabulary accumulates term frequencies from raw text records.
//
// Terms are kept in first-encountered order, so every listing and every
// frequency tie-break is reproducible across runs.
package vocabulary

import (
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
)

// Index maps each term to its occurrence count. The unique-term set is the
// key set of that map; a term is present iff its count is at least 1.
//
// Index is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Index struct {
	tokenizer *tokenizer.Tokenizer
	counts    map[string]int
	terms     []string
	tokens    int
}

// New returns an empty Index that tokenizes records with tok. A nil tok
// splits on whitespace only.
func New(tok *tokenizer.Tokenizer) *Index {
	return &Index{
		tokenizer: tok,
		counts:    make(map[string]int),
	}
}

// Ingest tokenizes every record and adds each token to the index. It
// returns the number of tokens added.
//
// Ingestion is cumulative: ingesting the same records again doubles their
// counts. Call Reset first to rebuild from scratch.
func (idx *Index) Ingest(records []string) int {
	added := 0
	for _, record := range records {
		for _, term := range idx.tokenizer.Tokenize(record) {
			if _, exists := idx.counts[term]; !exists {
				idx.terms = append(idx.terms, term)
			}
			idx.counts[term]++
			added++
		}
	}
	idx.tokens += added
	return added
}

// FrequencyOf returns how often term occurred. The lookup is normalized the
// same way tokens are, so "Visa!" finds "visa". Unknown terms return 0.
func (idx *Index) FrequencyOf(term string) int {
	return idx.counts[tokenizer.CleanTerm(term)]
}

// Contains reports whether term, taken verbatim, is in the index.
func (idx *Index) Contains(term string) bool {
	return idx.counts[term] > 0
}

// TopFrequent returns the k most frequent terms, ties broken by first
// occurrence.
func (idx *Index) TopFrequent(k int) []ranking.Entry {
	return ranking.TopK(idx.Entries(), k)
}

// Entries returns every term with its count in first-encountered order.
func (idx *Index) Entries() []ranking.Entry {
	entries := make([]ranking.Entry, 0, len(idx.terms))
	for _, term := range idx.terms {
		entries = append(entries, ranking.Entry{Key: term, Score: int64(idx.counts[term])})
	}
	return entries
}

// UniqueTerms returns a copy of the term set in first-encountered order.
func (idx *Index) UniqueTerms() []string {
	terms := make([]string, len(idx.terms))
	copy(terms, idx.terms)
	return terms
}

// Len returns the number of unique terms.
func (idx *Index) Len() int {
	return len(idx.terms)
}

// TokenCount returns the number of tokens ingested since the last Reset.
func (idx *Index) TokenCount() int {
	return idx.tokens
}

// Reset empties the index.
func (idx *Index) Reset() {
	idx.counts = make(map[string]int)
	idx.terms = nil
	idx.tokens = 0
}
