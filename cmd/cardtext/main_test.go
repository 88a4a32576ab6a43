package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/fuzzy"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

const testCSV = `Bank Name,Card Name,Annual Fee,Purchase Interest Rate,Rewards
RBC Bank,Avion Visa Infinite,120,19.99,Travel points
Bank of Montreal,CashBack Mastercard,0,20.99,3% cash back
CIBC,Aventura Visa,N/A,20.99,Travel insurance
`

func writeCards(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommandJSON(t *testing.T) {
	out, err := runCLI(t, "--cards", writeCards(t), "--json", "check", "visa", "trav")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var reports []fuzzy.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if len(reports) != 2 || !reports[0].Correct || reports[1].Correct {
		t.Fatalf("reports = %+v", reports)
	}
	if reports[1].Closest == nil || reports[1].Closest.Term != "travel" {
		t.Errorf("closest = %+v, want travel", reports[1].Closest)
	}
}

func TestCheckCommandTable(t *testing.T) {
	out, err := runCLI(t, "--cards", writeCards(t), "check", "poins")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"misspelled", "points (1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSuggestAndNearest(t *testing.T) {
	path := writeCards(t)
	out, err := runCLI(t, "--cards", path, "suggest", "Av")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Fields(out); len(got) != 2 || got[0] != "aventura" || got[1] != "avion" {
		t.Errorf("suggest output = %q", out)
	}

	out, err = runCLI(t, "--cards", path, "nearest", "mastercrd")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "mastercard (distance 1)" {
		t.Errorf("nearest output = %q", out)
	}
}

func TestTrackCommand(t *testing.T) {
	out, err := runCLI(t, "--cards", writeCards(t), "--json", "track", "-n", "2", "travel", "cash", "travel", "visa")
	if err != nil {
		t.Fatal(err)
	}
	var entries []ranking.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	want := []ranking.Entry{{Key: "travel", Score: 2}, {Key: "cash", Score: 1}}
	if len(entries) != 2 || entries[0] != want[0] || entries[1] != want[1] {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
}

func TestRecommendAndValidate(t *testing.T) {
	path := writeCards(t)
	out, err := runCLI(t, "--cards", path, "--json", "recommend", "--max-fee", "50", "--rewards", "travel")
	if err != nil {
		t.Fatal(err)
	}
	var matched []cards.Card
	if err := json.Unmarshal([]byte(out), &matched); err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Name != "Aventura Visa" {
		t.Errorf("recommend = %+v", matched)
	}

	out, err = runCLI(t, "--cards", path, "--json", "validate", "--invalid")
	if err != nil {
		t.Fatal(err)
	}
	var results []cards.ValidationResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("invalid cards = %+v, want 2", results)
	}
}

func TestMatchCommand(t *testing.T) {
	path := writeCards(t)
	out, err := runCLI(t, "--cards", path, "match", "^Travel")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Avion Visa Infinite") || strings.Contains(out, "CashBack") {
		t.Errorf("match output:\n%s", out)
	}

	_, err = runCLI(t, "--cards", path, "match", "[oops")
	if !errors.Is(err, apperrors.ErrInvalidPattern) {
		t.Errorf("err = %v, want ErrInvalidPattern", err)
	}
}

func TestRankPagesCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rbc.html"), []byte("<p>avion travel rewards</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "--pages", dir, "--json", "rank-pages")
	if err != nil {
		t.Fatal(err)
	}
	var entries []ranking.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Key != "rbc.html" || entries[0].Score != 3 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestMissingCardFile(t *testing.T) {
	_, err := runCLI(t, "--cards", filepath.Join(t.TempDir(), "none.csv"), "check", "visa")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
