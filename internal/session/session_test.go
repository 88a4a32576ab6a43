package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/metrics"
)

func sampleCards() []cards.Card {
	return []cards.Card{
		{Bank: "RBC", Name: "Avion Visa", AnnualFee: 120, InterestRate: 19.99, Rewards: "Travel points"},
		{Bank: "BMO", Name: "CashBack Mastercard", AnnualFee: 0, InterestRate: 20.99, Rewards: "Cash back"},
		{Bank: "CIBC", Name: "Aventura Visa", AnnualFee: 139, InterestRate: 20.99, Rewards: "Travel insurance"},
	}
}

func newSession(t *testing.T) (*Session, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	s := New(Options{Delimiter: ',', PatternTimeout: time.Second, Metrics: m})
	s.LoadCards(sampleCards())
	return s, m
}

func TestLoadCardsBuildsVocabulary(t *testing.T) {
	s, m := newSession(t)

	if got := s.Frequency("visa"); got != 2 {
		t.Errorf("Frequency(visa) = %d, want 2", got)
	}
	if got := s.Frequency("TRAVEL"); got != 2 {
		t.Errorf("Frequency(TRAVEL) = %d, want 2", got)
	}
	if !s.IsKnown("Mastercard") {
		t.Error("IsKnown(Mastercard) = false")
	}
	if s.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", s.Generation())
	}
	stats := s.Stats()
	if stats.Cards != 3 || stats.Terms == 0 {
		t.Errorf("Stats = %+v", stats)
	}
	if got := testutil.ToFloat64(m.VocabularyTerms); got != float64(stats.Terms) {
		t.Errorf("vocabulary_terms = %v, want %d", got, stats.Terms)
	}
}

func TestLoadCardsKeepsNumbersOutOfVocabulary(t *testing.T) {
	const csv = `Bank Name,Card Name,Annual Fee,Purchase Interest Rate,Rewards
RBC,Avion Visa,N/A,19.99%,Travel points
TD,Cash Card,$120,20.99,Cash back
`
	loaded, err := cards.Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := New(Options{Delimiter: ','})
	s.LoadCards(loaded)

	for _, term := range []string{"na", "1999", "120", "2099"} {
		if s.IsKnown(term) {
			t.Errorf("IsKnown(%q) = true, want false", term)
		}
	}
	if got := s.Frequency("120"); got != 0 {
		t.Errorf("Frequency(120) = %d, want 0", got)
	}
	for _, term := range []string{"avion", "rbc", "travel", "td", "cash"} {
		if !s.IsKnown(term) {
			t.Errorf("IsKnown(%q) = false, want true", term)
		}
	}

	report, err := s.Check("n")
	if err != nil {
		t.Fatalf("Check(n): %v", err)
	}
	if len(report.Suggestions) != 0 {
		t.Errorf("Check(n) suggestions = %v, want none", report.Suggestions)
	}
}

func TestIngestIsCumulative(t *testing.T) {
	s, _ := newSession(t)
	before := s.Frequency("visa")
	if added := s.Ingest([]string{"visa infinite"}); added != 2 {
		t.Errorf("Ingest added %d, want 2", added)
	}
	if got := s.Frequency("visa"); got != before+1 {
		t.Errorf("Frequency(visa) = %d, want %d", got, before+1)
	}
	if s.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", s.Generation())
	}
	if s.Ingest([]string{"  ", "!!"}); s.Generation() != 2 {
		t.Error("empty ingest must not bump the generation")
	}
}

func TestCheck(t *testing.T) {
	s, m := newSession(t)

	report, err := s.Check("visa")
	if err != nil || !report.Correct {
		t.Fatalf("Check(visa) = %+v, %v", report, err)
	}

	report, err = s.Check("trav")
	if err != nil {
		t.Fatalf("Check(trav): %v", err)
	}
	if report.Correct {
		t.Error("trav reported correct")
	}
	if diff := cmp.Diff([]string{"travel"}, report.Suggestions); diff != "" {
		t.Errorf("suggestions (-want +got):\n%s", diff)
	}
	if report.Closest == nil || report.Closest.Term != "travel" || report.Closest.Distance != 2 {
		t.Errorf("closest = %+v, want travel/2", report.Closest)
	}

	if got := testutil.ToFloat64(m.SpellChecksTotal.WithLabelValues("correct")); got != 1 {
		t.Errorf("correct checks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SpellChecksTotal.WithLabelValues("suggested")); got != 1 {
		t.Errorf("suggested checks = %v, want 1", got)
	}
}

func TestEmptySession(t *testing.T) {
	s := New(Options{})
	if _, err := s.Check("visa"); !errors.Is(err, apperrors.ErrEmptyVocabulary) {
		t.Errorf("Check err = %v, want ErrEmptyVocabulary", err)
	}
	if _, err := s.Suggest("v"); !errors.Is(err, apperrors.ErrEmptyVocabulary) {
		t.Errorf("Suggest err = %v, want ErrEmptyVocabulary", err)
	}
	if _, err := s.Nearest("v"); !errors.Is(err, apperrors.ErrEmptyVocabulary) {
		t.Errorf("Nearest err = %v, want ErrEmptyVocabulary", err)
	}
	if got := s.TopTerms(5); len(got) != 0 {
		t.Errorf("TopTerms = %v, want empty", got)
	}
	if got := s.Cards(); got == nil || len(got) != 0 {
		t.Errorf("Cards = %v, want empty slice", got)
	}
}

func TestQueries(t *testing.T) {
	s, m := newSession(t)
	for _, q := range []string{"travel", "Travel", "travel", "cash back"} {
		s.RecordQuery(q)
	}
	s.AddQueryCount("cash back", 2)
	s.AddQueryCount("ignored", 0)

	want := []ranking.Entry{{Key: "cash back", Score: 3}, {Key: "travel", Score: 2}}
	if diff := cmp.Diff(want, s.TopQueries(2)); diff != "" {
		t.Errorf("TopQueries (-want +got):\n%s", diff)
	}
	if got := s.QueryCount("Travel"); got != 1 {
		t.Errorf("QueryCount(Travel) = %d, want 1", got)
	}
	if got := len(s.QueryEntries()); got != 3 {
		t.Errorf("QueryEntries len = %d, want 3", got)
	}
	if got := testutil.ToFloat64(m.QueriesRecorded); got != 6 {
		t.Errorf("queries recorded = %v, want 6", got)
	}
}

func TestCardOperations(t *testing.T) {
	s, m := newSession(t)

	got := s.Recommend(cards.Criteria{MaxAnnualFee: 130, MaxInterestRate: cards.NoBound, RewardsKeyword: "travel"})
	if len(got) != 1 || got[0].Name != "Avion Visa" {
		t.Errorf("Recommend = %v", got)
	}

	if results := s.Validate(); len(results) != 3 || !results[0].Valid() {
		t.Errorf("Validate = %+v", results)
	}

	matched, err := s.MatchRewards(`^Travel\s`)
	if err != nil {
		t.Fatalf("MatchRewards: %v", err)
	}
	names := make([]string, len(matched))
	for i, c := range matched {
		names[i] = c.Name
	}
	if diff := cmp.Diff([]string{"Avion Visa", "Aventura Visa"}, names); diff != "" {
		t.Errorf("MatchRewards (-want +got):\n%s", diff)
	}

	if _, err := s.MatchRewards("(unclosed"); !errors.Is(err, apperrors.ErrInvalidPattern) {
		t.Errorf("err = %v, want ErrInvalidPattern", err)
	}
	if got := testutil.ToFloat64(m.PatternErrorsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("invalid pattern errors = %v, want 1", got)
	}

	copied := s.Cards()
	copied[0].Name = "changed"
	if diff := cmp.Diff(sampleCards(), s.Cards()); diff != "" {
		t.Errorf("Cards returned shared storage (-want +got):\n%s", diff)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s, _ := newSession(t)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 50 {
				s.RecordQuery(fmt.Sprintf("q%d", j%5))
				s.Ingest([]string{fmt.Sprintf("term%d", i)})
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = s.Check("trvel")
				_ = s.TopQueries(3)
			}
		}()
	}
	wg.Wait()
	if got := s.Stats().Searches; got != 400 {
		t.Errorf("Searches = %d, want 400", got)
	}
}
