// Package fuzzy answers spell-check questions against a vocabulary: exact
// membership, prefix completion, and the nearest term by edit distance.
//
// Results are deterministic. Suggestions are listed in ascending
// lexicographic order, and when several terms share the minimum distance
// the lexicographically smallest wins.
//
// NearestTerm compares the query against every term, so a scan costs
// O(len(query) * total term length). That is fine for a few thousand terms;
// larger vocabularies should be narrowed by prefix or length first.
package fuzzy

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/vocabulary"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

// Match is the nearest vocabulary term to a query.
type Match struct {
	Term     string `json:"term"`
	Distance int    `json:"distance"`
}

// Report is the outcome of checking one word.
type Report struct {
	Word        string   `json:"word"`
	Correct     bool     `json:"correct"`
	Suggestions []string `json:"suggestions,omitempty"`
	Closest     *Match   `json:"closest,omitempty"`
}

// Matcher reads the vocabulary on every call, so it always reflects the
// latest ingestion. It adds no locking of its own.
type Matcher struct {
	vocab *vocabulary.Index
}

func NewMatcher(vocab *vocabulary.Index) *Matcher {
	return &Matcher{vocab: vocab}
}

// IsKnown reports whether the normalized query is exactly a vocabulary term.
func (m *Matcher) IsKnown(query string) bool {
	return m.vocab.Contains(tokenizer.NormalizeQuery(query))
}

// PrefixSuggestions returns every term that starts with the lower-cased
// query, sorted ascending. It fails with ErrEmptyVocabulary when there are
// no terms at all.
func (m *Matcher) PrefixSuggestions(query string) ([]string, error) {
	terms, err := m.sortedTerms()
	if err != nil {
		return nil, err
	}
	prefix := tokenizer.NormalizeQuery(query)
	suggestions := make([]string, 0)
	for _, term := range terms {
		if strings.HasPrefix(term, prefix) {
			suggestions = append(suggestions, term)
		}
	}
	return suggestions, nil
}

// NearestTerm returns the term with the smallest edit distance to the
// lower-cased query. Ties go to the lexicographically smallest term.
func (m *Matcher) NearestTerm(query string) (Match, error) {
	terms, err := m.sortedTerms()
	if err != nil {
		return Match{}, err
	}
	q := tokenizer.NormalizeQuery(query)
	qLen := len([]rune(q))

	best := Match{Term: terms[0], Distance: Levenshtein(q, terms[0])}
	for _, term := range terms[1:] {
		if best.Distance == 0 {
			break
		}
		// The length difference is a lower bound on the distance.
		if abs(qLen-len([]rune(term))) >= best.Distance {
			continue
		}
		if d := Levenshtein(q, term); d < best.Distance {
			best = Match{Term: term, Distance: d}
		}
	}
	return best, nil
}

// Check runs the full spell-check flow for word: a known word is reported
// correct; otherwise prefix completions and the nearest term are returned.
func (m *Matcher) Check(word string) (Report, error) {
	report := Report{Word: word}
	if m.IsKnown(word) {
		report.Correct = true
		return report, nil
	}
	suggestions, err := m.PrefixSuggestions(word)
	if err != nil {
		return report, fmt.Errorf("checking %q: %w", word, err)
	}
	nearest, err := m.NearestTerm(word)
	if err != nil {
		return report, fmt.Errorf("checking %q: %w", word, err)
	}
	report.Suggestions = suggestions
	report.Closest = &nearest
	return report, nil
}

func (m *Matcher) sortedTerms() ([]string, error) {
	terms := m.vocab.UniqueTerms()
	if len(terms) == 0 {
		return nil, apperrors.ErrEmptyVocabulary
	}
	slices.Sort(terms)
	return terms, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
