// Package types contains read shapes shared between the service layer and
// the HTTP API, mirroring the JSON the dashboard consumes.
package types

import "time"

// RefreshResult summarizes one completed refresh cycle.
type RefreshResult struct {
	Matches       int       `json:"matches_count"`
	Projections   int       `json:"projections_count"`
	Opportunities int       `json:"opportunities_count"`
	LastRefresh   time.Time `json:"last_updated"`
}

// ManualLine is one row of a manual bulk line import, parsed upstream
// from whatever the operator pasted in.
type ManualLine struct {
	PlayerName string  `json:"player_name"`
	StatType   string  `json:"stat_type"`
	Line       float64 `json:"line"`
	Team       string  `json:"team"`
}

// BatchResult reports how a manual bulk import went. A malformed row never
// aborts the batch; it is counted and reported here instead.
type BatchResult struct {
	Accepted int      `json:"accepted_count"`
	Rejected int      `json:"rejected_count"`
	Errors   []string `json:"errors,omitempty"`
}

// AggregateStats is the dashboard's top-line summary.
type AggregateStats struct {
	TotalMatches       int        `json:"total_matches"`
	TotalProjections   int        `json:"total_projections"`
	ValueOpportunities int        `json:"value_opportunities"`
	AvgConfidence      float64    `json:"avg_confidence"`
	LastRefresh        *time.Time `json:"last_refresh,omitempty"`
}
