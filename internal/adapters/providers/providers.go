// Package providers defines the upstream data-source contracts the engine
// consumes and ships a fixture-backed implementation used when no real
// connectors are wired in.
package providers

import (
	"context"

	"github.com/nvoss/propsight/internal/domain/model"
)

// LineSource supplies current betting lines per player and stat.
type LineSource interface {
	// CurrentLines returns each platform's posted line for the player
	// stat, or an empty slice when no platform quotes it.
	CurrentLines(ctx context.Context, player string, stat model.StatType) ([]model.DFSLine, error)
}

// MatchSource supplies the upcoming match schedule.
type MatchSource interface {
	UpcomingMatches(ctx context.Context) ([]model.Match, error)
}

// RosterSource supplies the active roster for a team.
type RosterSource interface {
	Roster(ctx context.Context, team string) ([]string, error)
}
