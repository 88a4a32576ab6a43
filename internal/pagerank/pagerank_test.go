package pagerank

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/ranking"
	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"plain", "<p>Travel rewards card</p>", 3},
		{"punctuation splits", "<p>no-fee, 2x points!</p>", 4},
		{"script ignored", "<html><head><script>var a = 1;</script><style>p{}</style></head><body>one two</body></html>", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountWords(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("CountWords: %v", err)
			}
			if got != tt.want {
				t.Errorf("CountWords = %d, want %d", got, tt.want)
			}
		})
	}
}

func writePages(t *testing.T, pages map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range pages {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRankDirectory(t *testing.T) {
	root := writePages(t, map[string]string{
		"rbc/avion.html":    "<p>one two three four</p>",
		"cibc/index.HTML":   "<p>one two</p>",
		"bmo/cashback.html": "<p>one two three four</p>",
		"notes.txt":         "one two three four five six",
		"td/aeroplan.htm":   "<p>one two three four five six</p>",
		"scotia/scene.html": "<p>one</p>",
	})

	got, err := RankDirectory(context.Background(), root, 0)
	if err != nil {
		t.Fatalf("RankDirectory: %v", err)
	}
	want := []ranking.Entry{
		{Key: "bmo/cashback.html", Score: 4},
		{Key: "rbc/avion.html", Score: 4},
		{Key: "cibc/index.HTML", Score: 2},
		{Key: "scotia/scene.html", Score: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RankDirectory mismatch (-want +got):\n%s", diff)
	}

	top, err := RankDirectory(context.Background(), root, 1)
	if err != nil {
		t.Fatalf("RankDirectory: %v", err)
	}
	if len(top) != 1 || top[0].Key != "bmo/cashback.html" {
		t.Errorf("top 1 = %v", top)
	}
}

func TestRankDirectoryMissing(t *testing.T) {
	_, err := RankDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), 10)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRankDirectoryEmpty(t *testing.T) {
	got, err := RankDirectory(context.Background(), t.TempDir(), 10)
	if err != nil {
		t.Fatalf("RankDirectory: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no pages", got)
	}
}
