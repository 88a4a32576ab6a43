package pattern

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", apperrors.ErrInvalidInput},
		{"   ", apperrors.ErrInvalidInput},
		{"(cash", apperrors.ErrInvalidPattern},
		{"[a-", apperrors.ErrInvalidPattern},
		{"*points", apperrors.ErrInvalidPattern},
	}
	for _, tt := range tests {
		_, err := Compile(tt.expr, 0)
		if !errors.Is(err, tt.want) {
			t.Errorf("Compile(%q) err = %v, want %v", tt.expr, err, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	rewards := []string{
		"3% cash back on groceries",
		"Travel points",
		"No rewards",
		"2x Aeroplan points on travel",
	}
	tests := []struct {
		expr string
		want []int
	}{
		{`(?i)points`, []int{1, 3}},
		{`\d+%`, []int{0}},
		{`^No`, []int{2}},
		{`points(?= on)`, []int{3}},
		{`lounge`, []int{}},
	}
	for _, tt := range tests {
		p, err := Compile(tt.expr, time.Second)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tt.expr, err)
		}
		got, err := p.Filter(rewards)
		if err != nil {
			t.Fatalf("Filter(%q): %v", tt.expr, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", tt.expr, diff)
		}
	}
}

func TestCatastrophicPatternTimesOut(t *testing.T) {
	p, err := Compile(`^(a+)+$`, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, err = p.Find(strings.Repeat("a", 64) + "!")
	if !errors.Is(err, apperrors.ErrTimeout) {
		t.Errorf("Find err = %v, want ErrTimeout", err)
	}
}
