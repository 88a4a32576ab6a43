// Package analytics moves recorded searches through Kafka: the Collector
// batches query events onto a topic and the Aggregator replays them into a
// query counter. The aggregator subpackage snapshots counts to PostgreSQL.
package analytics

import "time"

type EventType string

const EventSearch EventType = "search"

// QueryEvent records that a search query was issued. Count defaults to 1.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Count     int64     `json:"count,omitempty"`
	Source    string    `json:"source,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewQueryEvent returns a search event for query stamped with the current
// time.
func NewQueryEvent(query, source, requestID string) QueryEvent {
	return QueryEvent{
		Type:      EventSearch,
		Query:     query,
		Count:     1,
		Source:    source,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}

func (e QueryEvent) occurrences() int64 {
	if e.Count <= 0 {
		return 1
	}
	return e.Count
}
