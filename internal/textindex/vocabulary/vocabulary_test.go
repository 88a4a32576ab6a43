package vocabulary

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
)

func TestIngestScenario(t *testing.T) {
	idx := New(nil)
	added := idx.Ingest([]string{"Visa Rewards Card", "Visa Cash Back"})
	if added != 6 {
		t.Errorf("Ingest added %d tokens, want 6", added)
	}

	want := []string{"visa", "rewards", "card", "cash", "back"}
	if diff := cmp.Diff(want, idx.UniqueTerms()); diff != "" {
		t.Errorf("UniqueTerms mismatch (-want +got):\n%s", diff)
	}
	if got := idx.FrequencyOf("visa"); got != 2 {
		t.Errorf("FrequencyOf(visa) = %d, want 2", got)
	}
	if got := idx.FrequencyOf("VISA!"); got != 2 {
		t.Errorf("FrequencyOf(VISA!) = %d, want 2", got)
	}
	if got := idx.FrequencyOf("amex"); got != 0 {
		t.Errorf("FrequencyOf(amex) = %d, want 0", got)
	}
}

func TestIngestIsCumulative(t *testing.T) {
	idx := New(nil)
	records := []string{"Cash Back Visa", "cash"}
	idx.Ingest(records)
	before := map[string]int{}
	for _, term := range idx.UniqueTerms() {
		before[term] = idx.FrequencyOf(term)
	}
	idx.Ingest(records)
	for term, n := range before {
		if got := idx.FrequencyOf(term); got != 2*n {
			t.Errorf("FrequencyOf(%q) after re-ingest = %d, want %d", term, got, 2*n)
		}
	}
	if idx.Len() != len(before) {
		t.Errorf("re-ingest changed the term set: %d -> %d", len(before), idx.Len())
	}
}

func TestIngestMonotonic(t *testing.T) {
	idx := New(nil)
	batches := [][]string{
		{"travel rewards"},
		{"", "!!!", "   "},
		{"Travel insurance", "no fee"},
	}
	prev := map[string]int{}
	for _, batch := range batches {
		idx.Ingest(batch)
		for term, n := range prev {
			if got := idx.FrequencyOf(term); got < n {
				t.Errorf("FrequencyOf(%q) decreased %d -> %d", term, n, got)
			}
		}
		for _, term := range idx.UniqueTerms() {
			prev[term] = idx.FrequencyOf(term)
		}
	}
}

func TestSetMatchesCounts(t *testing.T) {
	idx := New(tokenizer.New(','))
	idx.Ingest([]string{"RBC,Avion Visa Infinite,120,19.99,Travel points", "TD,,,,"})
	for _, term := range idx.UniqueTerms() {
		if idx.FrequencyOf(term) < 1 || !idx.Contains(term) {
			t.Errorf("term %q in set without a positive count", term)
		}
	}
	for _, e := range idx.Entries() {
		if !idx.Contains(e.Key) {
			t.Errorf("count entry %q missing from set", e.Key)
		}
	}
	if idx.Contains("") {
		t.Error("empty token must never be stored")
	}
	if got := idx.FrequencyOf("avion"); got != 1 {
		t.Errorf("FrequencyOf(avion) = %d, want 1", got)
	}
}

func TestTopFrequentTieBreak(t *testing.T) {
	idx := New(nil)
	idx.Ingest([]string{"gold silver bronze", "silver gold", "platinum bronze", "gold"})
	// gold=3, silver=2, bronze=2, platinum=1; silver was seen before bronze.
	want := []ranking.Entry{
		{Key: "gold", Score: 3},
		{Key: "silver", Score: 2},
		{Key: "bronze", Score: 2},
	}
	if diff := cmp.Diff(want, idx.TopFrequent(3)); diff != "" {
		t.Errorf("TopFrequent(3) mismatch (-want +got):\n%s", diff)
	}
	if got := idx.TopFrequent(100); len(got) != 4 {
		t.Errorf("TopFrequent(100) returned %d entries, want 4", len(got))
	}
	if got := idx.TopFrequent(0); len(got) != 0 {
		t.Errorf("TopFrequent(0) = %v, want empty", got)
	}
}

func TestUniqueTermsIsCopy(t *testing.T) {
	idx := New(nil)
	idx.Ingest([]string{"alpha beta"})
	terms := idx.UniqueTerms()
	terms[0] = "mutated"
	if idx.UniqueTerms()[0] != "alpha" {
		t.Error("UniqueTerms must return a copy")
	}
}

func TestReset(t *testing.T) {
	idx := New(nil)
	idx.Ingest([]string{"alpha beta"})
	idx.Reset()
	if idx.Len() != 0 || idx.TokenCount() != 0 || idx.FrequencyOf("alpha") != 0 {
		t.Error("Reset should empty the index")
	}
}
