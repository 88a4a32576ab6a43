// Package pattern compiles user-supplied regular expressions and evaluates
// them with a time bound. Patterns use the backtracking regexp2 engine, so
// lookarounds and backreferences are supported. The match timeout bounds
// catastrophic backtracking.
package pattern

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

const DefaultTimeout = 250 * time.Millisecond

// Pattern is a compiled, time-bounded regular expression.
type Pattern struct {
	expr string
	re   *regexp2.Regexp
}

// Compile parses expr. A blank expression fails with ErrInvalidInput and a
// syntax error with ErrInvalidPattern. timeout <= 0 uses DefaultTimeout.
func Compile(expr string, timeout time.Duration) (*Pattern, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("pattern is empty: %w", apperrors.ErrInvalidInput)
	}
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidPattern, http.StatusBadRequest, "%v", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	re.MatchTimeout = timeout
	return &Pattern{expr: expr, re: re}, nil
}

func (p *Pattern) String() string {
	return p.expr
}

// Find reports whether the pattern matches anywhere in text. The only
// failure is exceeding the match timeout, reported as ErrTimeout.
func (p *Pattern) Find(text string) (bool, error) {
	ok, err := p.re.MatchString(text)
	if err != nil {
		return false, fmt.Errorf("matching %q: %w: %v", p.expr, apperrors.ErrTimeout, err)
	}
	return ok, nil
}

// Filter returns the indexes of the texts the pattern matches, in order.
func (p *Pattern) Filter(texts []string) ([]int, error) {
	matched := make([]int, 0)
	for i, text := range texts {
		ok, err := p.Find(text)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, i)
		}
	}
	return matched, nil
}
