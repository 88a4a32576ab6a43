package cards

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var rewardsPattern = regexp.MustCompile(`^[a-zA-Z0-9 ]*$`)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, field := range keys {
		parts[i] = fmt.Sprintf("%s:%s", field, e.Fields[field])
	}
	return strings.Join(parts, "; ")
}

// Validate checks a card's fee, rate and rewards and returns a
// ValidationError naming every failing field.
func Validate(c Card) error {
	errs := make(map[string]string)
	if c.AnnualFee < 0 {
		errs["annual_fee"] = "annual fee is missing or negative"
	}
	if c.InterestRate < 0 {
		errs["interest_rate"] = "interest rate is missing or negative"
	}
	rewards := strings.TrimSpace(c.Rewards)
	if rewards == "" {
		errs["rewards"] = "rewards are required"
	} else if !rewardsPattern.MatchString(c.Rewards) {
		errs["rewards"] = "rewards may contain only letters, digits and spaces"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// FieldStatus is the outcome for one validated field.
type FieldStatus struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// ValidationResult is the per-field report for one card.
type ValidationResult struct {
	Name         string      `json:"name"`
	AnnualFee    FieldStatus `json:"annual_fee"`
	InterestRate FieldStatus `json:"interest_rate"`
	Rewards      FieldStatus `json:"rewards"`
}

// Valid reports whether every field passed.
func (r ValidationResult) Valid() bool {
	return r.AnnualFee.Valid && r.InterestRate.Valid && r.Rewards.Valid
}

// ValidateAll reports every card, valid or not, in input order.
func ValidateAll(cards []Card) []ValidationResult {
	results := make([]ValidationResult, 0, len(cards))
	for _, c := range cards {
		res := ValidationResult{
			Name:         c.Name,
			AnnualFee:    FieldStatus{Value: formatAmount(c.AnnualFee), Valid: true},
			InterestRate: FieldStatus{Value: formatAmount(c.InterestRate), Valid: true},
			Rewards:      FieldStatus{Value: c.Rewards, Valid: true},
		}
		var verr *ValidationError
		if err := Validate(c); errors.As(err, &verr) {
			_, bad := verr.Fields["annual_fee"]
			res.AnnualFee.Valid = !bad
			_, bad = verr.Fields["interest_rate"]
			res.InterestRate.Valid = !bad
			_, bad = verr.Fields["rewards"]
			res.Rewards.Valid = !bad
		}
		results = append(results, res)
	}
	return results
}
