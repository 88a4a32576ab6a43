// Package cards holds the credit-card product dataset: the record type, the
// CSV loader, field validation and the recommendation filter.
package cards

import "strings"

// Missing marks a numeric field that was absent, "N/A" or unparseable.
const Missing = -1.0

// Card is one credit-card product.
type Card struct {
	Bank         string  `json:"bank"`
	Name         string  `json:"name"`
	AnnualFee    float64 `json:"annual_fee"`
	InterestRate float64 `json:"interest_rate"`
	Rewards      string  `json:"rewards"`
}

// Record returns the card's text fields (name, bank, rewards) joined by sep,
// the form ingested into the vocabulary. Fees and rates stay out of it.
func (c Card) Record(sep string) string {
	return strings.Join([]string{c.Name, c.Bank, c.Rewards}, sep)
}

// Records returns Record(sep) for every card, in order.
func Records(cards []Card, sep string) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Record(sep)
	}
	return out
}
