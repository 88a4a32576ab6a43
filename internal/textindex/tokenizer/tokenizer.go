// Package tokenizer turns raw record text into vocabulary tokens. Input is
// split on whitespace runs (and optionally one extra delimiter), every
// character outside [a-zA-Z0-9] is stripped, and the rest is lower-cased.
// Fragments that end up empty are dropped.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer splits on whitespace plus an optional secondary delimiter such
// as ',' for structured records. The zero value splits on whitespace only.
type Tokenizer struct {
	delimiter rune
}

// New returns a Tokenizer that additionally splits on delimiter. A zero
// delimiter means whitespace only.
func New(delimiter rune) *Tokenizer {
	return &Tokenizer{delimiter: delimiter}
}

// Tokenize returns the cleaned tokens of raw in input order.
func (t *Tokenizer) Tokenize(raw string) []string {
	var delim rune
	if t != nil {
		delim = t.delimiter
	}
	fragments := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || (delim != 0 && r == delim)
	})
	tokens := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if term := CleanTerm(fragment); term != "" {
			tokens = append(tokens, term)
		}
	}
	return tokens
}

// Tokenize splits raw on whitespace only.
func Tokenize(raw string) []string {
	return (*Tokenizer)(nil).Tokenize(raw)
}

// CleanTerm strips every character outside [a-zA-Z0-9] from s and
// lower-cases the remainder. It may return "".
func CleanTerm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case 'A' <= c && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// NormalizeQuery prepares user-typed input for prefix and membership
// checks: surrounding space is trimmed and letters are lower-cased, but no
// characters are stripped.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
