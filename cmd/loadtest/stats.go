package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Stats collects per-endpoint latencies and status codes from all workers.
type Stats struct {
	mu        sync.Mutex
	endpoints map[string]*endpointStats
}

type endpointStats struct {
	requests    int64
	latencies   []time.Duration
	errors      int64
	statusCodes map[int]int64
}

func NewStats() *Stats {
	return &Stats{endpoints: make(map[string]*endpointStats)}
}

// Record adds one request outcome. Transport errors count as failures and
// carry no latency sample.
func (s *Stats) Record(endpoint string, d time.Duration, status int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, ok := s.endpoints[endpoint]
	if !ok {
		es = &endpointStats{statusCodes: make(map[int]int64)}
		s.endpoints[endpoint] = es
	}
	es.requests++
	if err != nil {
		es.errors++
		return
	}
	if status < 200 || status >= 300 {
		es.errors++
	}
	es.latencies = append(es.latencies, d)
	es.statusCodes[status]++
}

// Summary is the digest of one endpoint's samples.
type Summary struct {
	Endpoint    string
	Requests    int64
	Errors      int64
	Min, Avg    time.Duration
	P50, P95    time.Duration
	P99, Max    time.Duration
	StdDev      time.Duration
	StatusCodes map[int]int64
}

// Summaries returns one Summary per endpoint, sorted by endpoint name.
func (s *Stats) Summaries() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Summary, 0, len(s.endpoints))
	for name, es := range s.endpoints {
		sum := Summary{
			Endpoint:    name,
			Requests:    es.requests,
			Errors:      es.errors,
			StatusCodes: make(map[int]int64, len(es.statusCodes)),
		}
		for code, n := range es.statusCodes {
			sum.StatusCodes[code] = n
		}
		if len(es.latencies) > 0 {
			lat := slices.Clone(es.latencies)
			slices.Sort(lat)
			var total time.Duration
			for _, l := range lat {
				total += l
			}
			avg := total / time.Duration(len(lat))
			var sq float64
			for _, l := range lat {
				diff := float64(l - avg)
				sq += diff * diff
			}
			sum.Min, sum.Max, sum.Avg = lat[0], lat[len(lat)-1], avg
			sum.P50 = percentile(lat, 50)
			sum.P95 = percentile(lat, 95)
			sum.P99 = percentile(lat, 99)
			sum.StdDev = time.Duration(math.Sqrt(sq / float64(len(lat))))
		}
		out = append(out, sum)
	}
	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.Endpoint, b.Endpoint)
	})
	return out
}

var errNoRequests = errors.New("no requests completed; is the service running?")

func printReport(w io.Writer, stats *Stats, duration time.Duration) error {
	summaries := stats.Summaries()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Endpoint", "Requests", "Errors", "Req/s", "Min", "Avg", "P50", "P95", "P99", "Max", "StdDev"})

	var total int64
	for _, s := range summaries {
		total += s.Requests
		rps := float64(s.Requests) / duration.Seconds()
		tw.AppendRow(table.Row{
			s.Endpoint, s.Requests, s.Errors, strconv.FormatFloat(rps, 'f', 1, 64),
			s.Min, s.Avg, s.P50, s.P95, s.P99, s.Max, s.StdDev,
		})
	}
	tw.Render()

	codes := table.NewWriter()
	codes.SetOutputMirror(w)
	codes.SetStyle(table.StyleRounded)
	codes.AppendHeader(table.Row{"Endpoint", "Status", "Count"})
	for _, s := range summaries {
		keys := make([]int, 0, len(s.StatusCodes))
		for code := range s.StatusCodes {
			keys = append(keys, code)
		}
		slices.Sort(keys)
		for _, code := range keys {
			codes.AppendRow(table.Row{s.Endpoint, code, s.StatusCodes[code]})
		}
	}
	fmt.Fprintln(w)
	codes.Render()

	if total == 0 {
		return errNoRequests
	}
	return nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
