// Command loadtest drives a running cardsearch service with a mix of spell
// checks, prefix suggestions, and recorded searches, then prints latency
// percentiles per endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	BaseURL     string
	Concurrency int
	Duration    time.Duration
	Words       []string
}

// request is one scripted call against the service.
type request struct {
	endpoint string
	method   string
	url      string
	body     string
}

// schedule spreads traffic roughly 6:3:1 across spell checks, suggestions,
// and recorded searches.
var schedule = []string{
	"spellcheck", "suggest", "spellcheck", "spellcheck", "suggest",
	"spellcheck", "searches", "spellcheck", "suggest", "spellcheck",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the cardsearch service")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	cfg := Config{
		BaseURL:     strings.TrimRight(*baseURL, "/"),
		Concurrency: *concurrency,
		Duration:    *duration,
		Words: []string{
			"mastercard", "mastercrd", "visa", "vsia", "infinite", "infinte",
			"cashback", "cashbak", "travel", "travle", "rewards", "rewads",
			"avion", "aventura", "scene", "groceries", "grocries", "lounge",
		},
	}

	fmt.Println("=== Card Search Load Test ===")
	fmt.Printf("Target:      %s\n", cfg.BaseURL)
	fmt.Printf("Concurrency: %d\n", cfg.Concurrency)
	fmt.Printf("Duration:    %s\n", cfg.Duration)
	fmt.Printf("Words:       %d unique\n", len(cfg.Words))
	fmt.Println()

	stats := runLoadTest(cfg)
	if err := printReport(os.Stdout, stats, cfg.Duration); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRequest(cfg Config, i int) request {
	word := cfg.Words[i%len(cfg.Words)]
	switch endpoint := schedule[i%len(schedule)]; endpoint {
	case "suggest":
		prefix := word[:min(3, len(word))]
		return request{endpoint: endpoint, method: http.MethodGet, url: cfg.BaseURL + "/api/v1/suggest?prefix=" + url.QueryEscape(prefix)}
	case "searches":
		return request{endpoint: endpoint, method: http.MethodPost, url: cfg.BaseURL + "/api/v1/searches", body: fmt.Sprintf(`{"query":%q}`, word+" card")}
	default:
		return request{endpoint: "spellcheck", method: http.MethodGet, url: cfg.BaseURL + "/api/v1/spellcheck?word=" + url.QueryEscape(word)}
	}
}

func runLoadTest(cfg Config) *Stats {
	stats := NewStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency * 2,
			MaxIdleConnsPerHost: cfg.Concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	fmt.Print("Running")
	for w := 0; w < cfg.Concurrency; w++ {
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i += cfg.Concurrency {
				req := buildRequest(cfg, i)
				start := time.Now()
				status, err := send(ctx, client, req)
				if ctx.Err() != nil {
					return nil
				}
				stats.Record(req.endpoint, time.Since(start), status, err)
			}
			return nil
		})
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Print(".")
			}
		}
	}()

	g.Wait()
	fmt.Println(" done!")
	fmt.Println()
	return stats
}

func send(ctx context.Context, client *http.Client, r request) (int, error) {
	var body io.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}
