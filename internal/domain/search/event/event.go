// Package event defines analytics events emitted by the search path.
package event

import "time"

// Search describes one executed hybrid query.
type Search struct {
	Query          string    `json:"query"`
	NumResults     int       `json:"num_results"`
	ResultCount    int       `json:"result_count"`
	LexicalHits    int       `json:"lexical_hits"`
	VectorHits     int       `json:"vector_hits"`
	VectorDegraded bool      `json:"vector_degraded"`
	LatencyMs      int64     `json:"latency_ms"`
	Timestamp      time.Time `json:"timestamp"`
}
