package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func record(c *Counter, q string, times int) {
	for i := 0; i < times; i++ {
		c.RecordQuery(q)
	}
}

func TestTopQueriesScenario(t *testing.T) {
	c := NewCounter()
	record(c, "visa", 3)
	record(c, "mastercard", 1)
	record(c, "amex", 2)

	want := []Entry{{"visa", 3}, {"amex", 2}}
	if diff := cmp.Diff(want, c.TopQueries(2)); diff != "" {
		t.Errorf("TopQueries(2) mismatch (-want +got):\n%s", diff)
	}
	if c.Total() != 6 || c.Len() != 3 {
		t.Errorf("Total=%d Len=%d, want 6 and 3", c.Total(), c.Len())
	}
}

func TestCounterKeepsRawKeys(t *testing.T) {
	c := NewCounter()
	c.RecordQuery("Visa")
	c.RecordQuery("visa")
	c.RecordQuery(" visa ")
	if c.Count("visa") != 1 || c.Count("Visa") != 1 || c.Count(" visa ") != 1 {
		t.Errorf("queries must not be normalized: %v", c.Entries())
	}
	if c.Count("amex") != 0 {
		t.Error("unknown query should count 0")
	}
}

func TestCounterTieBreakFirstRecorded(t *testing.T) {
	c := NewCounter()
	c.RecordQuery("travel")
	c.RecordQuery("cashback")
	c.RecordQuery("student")
	c.RecordQuery("cashback")
	c.RecordQuery("student")
	c.RecordQuery("travel")

	want := []Entry{{"travel", 2}, {"cashback", 2}, {"student", 2}}
	if diff := cmp.Diff(want, c.TopQueries(10)); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestCounterMonotonic(t *testing.T) {
	c := NewCounter()
	c.Add("visa", 5)
	c.Add("visa", 0)
	c.Add("visa", -3)
	if got := c.Count("visa"); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	if got := c.TopQueries(0); len(got) != 0 {
		t.Errorf("TopQueries(0) = %v, want empty", got)
	}
	c.Reset()
	if c.Len() != 0 || c.Count("visa") != 0 || c.Total() != 0 {
		t.Error("Reset should clear all state")
	}
}
