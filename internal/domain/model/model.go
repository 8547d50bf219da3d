// Package model contains domain records passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// StatType identifies a tracked player statistic. The set is open but
// conventionally fixed to the props the DFS platforms actually post.
type StatType string

const (
	StatKills     StatType = "kills"
	StatHeadshots StatType = "headshots"
)

// ParseStatType normalizes a raw stat type string.
func ParseStatType(s string) StatType {
	return StatType(strings.ToLower(strings.TrimSpace(s)))
}

// Platform identifies a DFS source issuing prop lines.
type Platform string

const (
	PlatformPrizePicks Platform = "prizepicks"
	PlatformUnderdog   Platform = "underdog"
)

// ParsePlatform normalizes a raw platform string. Unknown platforms pass
// through lowercased so a new source degrades gracefully instead of failing.
func ParsePlatform(s string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(s)))
}

// Direction classifies a line movement.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
	DirectionNew  Direction = "new"
)

// Side is the bettable side of a value opportunity.
type Side string

const (
	SideOver  Side = "over"
	SideUnder Side = "under"
)

// Player is a rostered esports player.
type Player struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// StatKey uniquely identifies one tracked line series.
// Player name and stat type are case-normalized so formatting differences
// between upstream sources do not fork a series.
type StatKey struct {
	Player   string   `json:"player_name"`
	Stat     StatType `json:"stat_type"`
	Platform Platform `json:"platform"`
}

// NewStatKey builds a normalized key.
func NewStatKey(player string, stat StatType, platform Platform) StatKey {
	return StatKey{
		Player:   strings.ToLower(strings.TrimSpace(player)),
		Stat:     StatType(strings.ToLower(strings.TrimSpace(string(stat)))),
		Platform: Platform(strings.ToLower(strings.TrimSpace(string(platform)))),
	}
}

func (k StatKey) String() string {
	return fmt.Sprintf("%s_%s_%s", k.Player, k.Stat, k.Platform)
}

// Match is an upcoming fixture between two teams.
type Match struct {
	ID         string    `json:"id"`
	Team1      string    `json:"team1"`
	Team2      string    `json:"team2"`
	Tournament string    `json:"tournament"`
	StartTime  time.Time `json:"start_time"`
	Maps       []string  `json:"maps,omitempty"`
	Status     string    `json:"status"`
}

// DFSLine is one platform's posted line for a player stat at a point in time.
type DFSLine struct {
	Platform   Platform  `json:"platform"`
	Stat       StatType  `json:"stat_type"`
	Line       float64   `json:"line"`
	ObservedAt time.Time `json:"observed_at"`
}

// Projection is the model's own expected value for a player stat.
// Created fresh each refresh cycle and never mutated; the next cycle's
// projection for the same player/stat supersedes it.
type Projection struct {
	Player         string   `json:"player_name"`
	Team           string   `json:"team"`
	Stat           StatType `json:"stat_type"`
	Value          float64  `json:"projected_value"`
	Confidence     float64  `json:"confidence"`
	FormMultiplier float64  `json:"form_multiplier"`
	TeamRating     float64  `json:"team_rating"`
	OpponentRating float64  `json:"opponent_rating"`
}

// ValueOpportunity flags a projection that disagrees with one platform's
// line by more than the threshold at sufficient confidence.
type ValueOpportunity struct {
	Player     string   `json:"player_name"`
	Stat       StatType `json:"stat_type"`
	Platform   Platform `json:"platform"`
	Projected  float64  `json:"projected_value"`
	Line       float64  `json:"line"`
	Difference float64  `json:"difference"`
	Side       Side     `json:"direction"`
	Confidence float64  `json:"confidence"`
}

// LineMovementRecord is one appended observation in a key's line history.
// The current record for a key is the latest in that key's ordered history.
type LineMovementRecord struct {
	Key          StatKey   `json:"key"`
	PreviousLine float64   `json:"previous_line"`
	HasPrevious  bool      `json:"has_previous"`
	CurrentLine  float64   `json:"current_line"`
	Movement     float64   `json:"movement"`
	Direction    Direction `json:"direction"`
	Significant  bool      `json:"is_significant"`
	HistoryCount int       `json:"history_count"`
	LastUpdated  time.Time `json:"last_updated"`
}

// AnnotatedProjection is a projection with the platform lines it was
// compared against and any opportunities that comparison produced.
type AnnotatedProjection struct {
	Projection
	Lines         []DFSLine          `json:"dfs_lines"`
	Opportunities []ValueOpportunity `json:"value_opportunities,omitempty"`
}

// MatchBundle is the per-match output of one refresh cycle.
type MatchBundle struct {
	Match       Match                 `json:"match"`
	Projections []AnnotatedProjection `json:"projections"`
	LastUpdated time.Time             `json:"last_updated"`
}

// TrackerSummary carries the movement tracker's aggregate counts.
type TrackerSummary struct {
	TrackedPlayers       int `json:"tracked_players"`
	TrackedKeys          int `json:"tracked_keys"`
	MovementsRecorded    int `json:"movements_recorded"`
	SignificantMovements int `json:"significant_movements"`
}
