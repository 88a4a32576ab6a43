package analytics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/resilience"
)

// CollectorConfig sizes the in-memory buffer and the publish batches.
type CollectorConfig struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
	Retry         resilience.RetryConfig
}

// CollectorStats counts events by outcome.
type CollectorStats struct {
	Published int64 `json:"published"`
	Dropped   int64 `json:"dropped"`
	Failed    int64 `json:"failed"`
}

// Collector buffers query events and publishes them in batches, flushing
// when a batch fills or the flush interval passes. Track never blocks: when
// the buffer is full the event is dropped and counted.
type Collector struct {
	publisher     kafka.Publisher
	eventCh       chan QueryEvent
	batchSize     int
	flushInterval time.Duration
	retry         resilience.RetryConfig

	mu     sync.RWMutex
	closed bool

	published atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64

	logger *slog.Logger
	done   chan struct{}
}

func NewCollector(publisher kafka.Publisher, cfg CollectorConfig) *Collector {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	return &Collector{
		publisher:     publisher,
		eventCh:       make(chan QueryEvent, cfg.BufferSize),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		retry:         cfg.Retry,
		logger:        slog.Default().With("component", "analytics-collector"),
		done:          make(chan struct{}),
	}
}

// Start launches the publish loop. It runs until ctx is cancelled or Close
// is called, flushing whatever is buffered before it exits.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.flushInterval)
		defer ticker.Stop()

		batch := make([]QueryEvent, 0, c.batchSize)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					c.finalFlush(batch)
					return
				}
				batch = append(batch, event)
				if len(batch) >= c.batchSize {
					c.flush(ctx, batch)
					batch = batch[:0]
				}
			case <-ticker.C:
				c.flush(ctx, batch)
				batch = batch[:0]
			case <-ctx.Done():
				c.markClosed()
				batch = c.drainInto(batch)
				c.finalFlush(batch)
				return
			}
		}
	}()
	c.logger.Info("analytics collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
		"flush_interval", c.flushInterval,
	)
}

// Track queues event for publishing and reports whether it was accepted.
func (c *Collector) Track(event QueryEvent) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.dropped.Add(1)
		return false
	}
	select {
	case c.eventCh <- event:
		return true
	default:
		c.dropped.Add(1)
		c.logger.Warn("analytics event dropped (buffer full)", "query", event.Query)
		return false
	}
}

// markClosed makes Track reject further events. Sends already in progress
// hold the read lock, so once it returns the buffer only shrinks.
func (c *Collector) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Close stops accepting events and waits for the loop started by Start to
// flush and exit.
func (c *Collector) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.eventCh)
	}
	c.mu.Unlock()
	<-c.done
}

func (c *Collector) Stats() CollectorStats {
	return CollectorStats{
		Published: c.published.Load(),
		Dropped:   c.dropped.Load(),
		Failed:    c.failed.Load(),
	}
}

func (c *Collector) drainInto(batch []QueryEvent) []QueryEvent {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return batch
			}
			batch = append(batch, event)
		default:
			return batch
		}
	}
}

func (c *Collector) finalFlush(batch []QueryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for len(batch) > 0 {
		n := min(len(batch), c.batchSize)
		c.flush(ctx, batch[:n])
		batch = batch[n:]
	}
}

func (c *Collector) flush(ctx context.Context, batch []QueryEvent) {
	if len(batch) == 0 {
		return
	}
	events := make([]kafka.Event, len(batch))
	for i, event := range batch {
		events[i] = kafka.Event{Key: event.Query, Value: event}
	}
	err := resilience.Retry(ctx, "publish-query-events", c.retry, func(ctx context.Context) error {
		return c.publisher.PublishBatch(ctx, events)
	})
	if err != nil {
		c.failed.Add(int64(len(events)))
		c.logger.Error("batch flush failed", "batch_size", len(events), "error", err)
		return
	}
	c.published.Add(int64(len(events)))
	c.logger.Debug("batch flushed", "batch_size", len(events))
}
