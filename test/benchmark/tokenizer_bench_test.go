package benchmark

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/textindex/vocabulary"
)

var sampleRecords = map[string]string{
	"short":  "RBC Bank,RBC Avion Visa Infinite,120,19.99,Travel points",
	"medium": `Bank of Montreal,BMO eclipse Visa Infinite,120,20.99,"5x points on groceries, dining, gas and transit; 1x points on everything else"`,
	"long": strings.Repeat(`CIBC,CIBC Aventura Visa Infinite Card,139,20.99,Earn 2 Aventura Points for every $1 spent
        on travel purchased through the CIBC Rewards Centre, 1.5 points at gas stations, EV
        charging, grocery stores and drugstores, and 1 point on everything else. Includes
        travel medical insurance, trip cancellation and airport lounge passes. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	tok := tokenizer.New(',')
	for name, text := range sampleRecords {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tok.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	tok := tokenizer.New(',')
	text := sampleRecords["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := tok.Tokenize(text)
			_ = tokens
		}
	})
}

func BenchmarkIngest(b *testing.B) {
	records := make([]string, 0, 300)
	for range 100 {
		for _, r := range sampleRecords {
			records = append(records, r)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := vocabulary.New(tokenizer.New(','))
		idx.Ingest(records)
	}
}
