package cards

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
)

const minFields = 5

// Load parses a card CSV: a header row followed by
// bank, name, annual fee, interest rate, rewards. Rows with fewer than five
// fields are skipped. Extra fields are ignored.
func Load(r io.Reader) ([]Card, error) {
	logger := slog.Default().With("component", "card-loader")

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []Card{}, nil
		}
		return nil, fmt.Errorf("reading card header: %w", err)
	}

	cards := make([]Card, 0)
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading card row: %w", err)
		}
		if len(row) < minFields {
			skipped++
			continue
		}
		cards = append(cards, Card{
			Bank:         strings.TrimSpace(row[0]),
			Name:         strings.TrimSpace(row[1]),
			AnnualFee:    parseAmount(row[2]),
			InterestRate: parseAmount(row[3]),
			Rewards:      strings.TrimSpace(row[4]),
		})
	}
	if skipped > 0 {
		logger.Warn("skipped short card rows", "count", skipped)
	}
	return cards, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) ([]Card, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("card file %s: %w", path, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("opening card file: %w", err)
	}
	defer f.Close()

	cards, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	slog.Info("cards loaded", "path", path, "count", len(cards))
	return cards, nil
}

// parseAmount reads a fee or rate such as "120", "$120", "19.99%" or "N/A".
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return Missing
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Missing
	}
	return v
}

func formatAmount(v float64) string {
	if v == Missing {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
