package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	apperrors "github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/kafka"
)

// Recorder receives replayed query counts. session.Session implements it.
type Recorder interface {
	AddQueryCount(query string, n int64)
}

// Aggregator applies consumed query events to a Recorder. Its HandleMessage
// method is a kafka.MessageHandler.
type Aggregator struct {
	recorder  Recorder
	processed atomic.Int64
	rejected  atomic.Int64
	logger    *slog.Logger
}

func NewAggregator(recorder Recorder) *Aggregator {
	return &Aggregator{
		recorder: recorder,
		logger:   slog.Default().With("component", "analytics-aggregator"),
	}
}

// HandleMessage decodes one QueryEvent and records it. Undecodable messages
// and unknown event types return an error and are counted as rejected; the
// consumer logs them and moves past them. Events with a blank query are
// skipped without an error.
func (a *Aggregator) HandleMessage(ctx context.Context, key, value []byte) error {
	event, err := kafka.DecodeJSON[QueryEvent](value)
	if err != nil {
		a.rejected.Add(1)
		return err
	}
	if strings.TrimSpace(event.Query) == "" {
		a.rejected.Add(1)
		a.logger.Warn("skipping query event without a query", "key", string(key))
		return nil
	}
	if event.Type != "" && event.Type != EventSearch {
		a.rejected.Add(1)
		return fmt.Errorf("event type %q: %w", event.Type, apperrors.ErrInvalidInput)
	}
	a.recorder.AddQueryCount(event.Query, event.occurrences())
	a.processed.Add(1)
	return nil
}

// Processed returns the number of events recorded so far.
func (a *Aggregator) Processed() int64 {
	return a.processed.Load()
}

// Rejected returns the number of events that were not recorded.
func (a *Aggregator) Rejected() int64 {
	return a.rejected.Load()
}
