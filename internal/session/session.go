// Package session owns one vocabulary, one query counter and one card set
// and serializes every operation on them. The service and the CLI each hold
// a single Session; nothing in the text-analytics core is shared globally.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/pattern"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/fuzzy"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/vocabulary"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/metrics"
)

// Options configures a Session. Metrics may be nil.
type Options struct {
	Delimiter      rune
	PatternTimeout time.Duration
	Metrics        *metrics.Metrics
}

// Stats is a point-in-time summary of the session's state.
type Stats struct {
	Terms      int    `json:"terms"`
	Tokens     int    `json:"tokens"`
	Queries    int    `json:"queries"`
	Searches   int64  `json:"searches"`
	Cards      int    `json:"cards"`
	Generation uint64 `json:"generation"`
}

// Session is safe for concurrent use. Reads share a lock; ingestion and
// query recording take it exclusively.
type Session struct {
	mu         sync.RWMutex
	vocab      *vocabulary.Index
	matcher    *fuzzy.Matcher
	queries    *ranking.Counter
	cards      []cards.Card
	generation uint64

	delimiter      rune
	patternTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

func New(opts Options) *Session {
	vocab := vocabulary.New(tokenizer.New(opts.Delimiter))
	return &Session{
		vocab:          vocab,
		matcher:        fuzzy.NewMatcher(vocab),
		queries:        ranking.NewCounter(),
		cards:          []cards.Card{},
		delimiter:      opts.Delimiter,
		patternTimeout: opts.PatternTimeout,
		metrics:        opts.Metrics,
		logger:         slog.Default().With("component", "session"),
	}
}

// LoadCards replaces the card set and ingests every card's record into the
// vocabulary. Ingestion is cumulative, so loading the same cards twice
// doubles their term counts. Returns the number of tokens added.
func (s *Session) LoadCards(cs []cards.Card) int {
	sep := ","
	if s.delimiter != 0 {
		sep = string(s.delimiter)
	}
	records := cards.Records(cs, sep)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards = append([]cards.Card(nil), cs...)
	added := s.ingestLocked(records)
	s.logger.Info("cards loaded", "cards", len(cs), "tokens", added, "terms", s.vocab.Len())
	return added
}

// Ingest adds raw text records to the vocabulary and returns the number of
// tokens added.
func (s *Session) Ingest(records []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingestLocked(records)
}

func (s *Session) ingestLocked(records []string) int {
	added := s.vocab.Ingest(records)
	if added > 0 {
		s.generation++
	}
	if s.metrics != nil {
		s.metrics.TokensIngested.Add(float64(added))
		s.metrics.VocabularyTerms.Set(float64(s.vocab.Len()))
	}
	return added
}

// Generation increases every time the vocabulary changes. Cached spell-check
// results are keyed by it.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Session) Check(word string) (fuzzy.Report, error) {
	s.mu.RLock()
	report, err := s.matcher.Check(word)
	s.mu.RUnlock()

	if s.metrics != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyVocabulary):
			s.metrics.SpellChecksTotal.WithLabelValues("empty_vocabulary").Inc()
		case err != nil:
		case report.Correct:
			s.metrics.SpellChecksTotal.WithLabelValues("correct").Inc()
		default:
			s.metrics.SpellChecksTotal.WithLabelValues("suggested").Inc()
			s.metrics.NearestTermDistance.Observe(float64(report.Closest.Distance))
		}
	}
	return report, err
}

func (s *Session) IsKnown(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.IsKnown(word)
}

func (s *Session) Suggest(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.PrefixSuggestions(prefix)
}

func (s *Session) Nearest(word string) (fuzzy.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher.NearestTerm(word)
}

func (s *Session) Frequency(term string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vocab.FrequencyOf(term)
}

// TopTerms returns the k most frequent vocabulary terms.
func (s *Session) TopTerms(k int) []ranking.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vocab.TopFrequent(k)
}

// RecordQuery counts one search for query, stored verbatim.
func (s *Session) RecordQuery(query string) {
	s.AddQueryCount(query, 1)
}

// AddQueryCount counts n searches for query. Non-positive n is ignored.
func (s *Session) AddQueryCount(query string, n int64) {
	s.mu.Lock()
	s.queries.Add(query, n)
	s.mu.Unlock()
	if s.metrics != nil && n > 0 {
		s.metrics.QueriesRecorded.Add(float64(n))
	}
}

func (s *Session) QueryCount(query string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.Count(query)
}

func (s *Session) TopQueries(k int) []ranking.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.TopQueries(k)
}

// QueryEntries returns every recorded query with its count, first-recorded
// first.
func (s *Session) QueryEntries() []ranking.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.Entries()
}

// Cards returns a copy of the loaded cards.
func (s *Session) Cards() []cards.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]cards.Card{}, s.cards...)
}

func (s *Session) Recommend(c cards.Criteria) []cards.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cards.Recommend(s.cards, c)
}

func (s *Session) Validate() []cards.ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cards.ValidateAll(s.cards)
}

// MatchRewards returns the cards whose rewards text matches expr.
func (s *Session) MatchRewards(expr string) ([]cards.Card, error) {
	p, err := pattern.Compile(expr, s.patternTimeout)
	if err != nil {
		s.countPatternError(err)
		return nil, err
	}

	s.mu.RLock()
	rewards := make([]string, len(s.cards))
	for i, c := range s.cards {
		rewards[i] = c.Rewards
	}
	idx, err := p.Filter(rewards)
	matched := make([]cards.Card, 0, len(idx))
	for _, i := range idx {
		matched = append(matched, s.cards[i])
	}
	s.mu.RUnlock()

	if err != nil {
		s.countPatternError(err)
		return nil, err
	}
	return matched, nil
}

func (s *Session) countPatternError(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, apperrors.ErrTimeout):
		s.metrics.PatternErrorsTotal.WithLabelValues("timeout").Inc()
	case errors.Is(err, apperrors.ErrInvalidPattern), errors.Is(err, apperrors.ErrInvalidInput):
		s.metrics.PatternErrorsTotal.WithLabelValues("invalid").Inc()
	}
}

func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Terms:      s.vocab.Len(),
		Tokens:     s.vocab.TokenCount(),
		Queries:    s.queries.Len(),
		Searches:   s.queries.Total(),
		Cards:      len(s.cards),
		Generation: s.generation,
	}
}
