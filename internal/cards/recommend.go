package cards

import "strings"

// Criteria filters cards for a recommendation. A negative bound means no
// bound and an empty keyword matches every card.
type Criteria struct {
	MaxAnnualFee    float64 `json:"max_annual_fee"`
	MaxInterestRate float64 `json:"max_interest_rate"`
	RewardsKeyword  string  `json:"rewards_keyword"`
}

// NoBound is the Criteria value that disables a numeric bound.
const NoBound = -1.0

// AnyCard returns criteria that match every card.
func AnyCard() Criteria {
	return Criteria{MaxAnnualFee: NoBound, MaxInterestRate: NoBound}
}

// Recommend returns the cards meeting c, in input order. Cards whose fee or
// rate is Missing compare as -1 and so satisfy any non-negative bound.
func Recommend(cards []Card, c Criteria) []Card {
	keyword := strings.ToLower(strings.TrimSpace(c.RewardsKeyword))
	out := make([]Card, 0)
	for _, card := range cards {
		if c.MaxAnnualFee >= 0 && card.AnnualFee > c.MaxAnnualFee {
			continue
		}
		if c.MaxInterestRate >= 0 && card.InterestRate > c.MaxInterestRate {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(card.Rewards), keyword) {
			continue
		}
		out = append(out, card)
	}
	return out
}
