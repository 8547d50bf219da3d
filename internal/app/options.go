package service

import (
	"time"

	"github.com/nvoss/propsight/internal/adapters/providers"
	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/internal/domain/projection"
	"github.com/nvoss/propsight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStatsProvider injects the player-form/team-rating source.
func WithStatsProvider(p projection.StatsProvider) Option {
	return func(s *Service) {
		if p != nil {
			s.statsProvider = p
		}
	}
}

// WithLineSource injects the betting-line source.
func WithLineSource(src providers.LineSource) Option {
	return func(s *Service) {
		if src != nil {
			s.lineSource = src
		}
	}
}

// WithMatchSource injects the match schedule source.
func WithMatchSource(src providers.MatchSource) Option {
	return func(s *Service) {
		if src != nil {
			s.matchSource = src
		}
	}
}

// WithRosterSource injects the team roster source.
func WithRosterSource(src providers.RosterSource) Option {
	return func(s *Service) {
		if src != nil {
			s.rosterSource = src
		}
	}
}

// WithStatTypes sets the stats projected per player each cycle.
func WithStatTypes(stats []model.StatType) Option {
	return func(s *Service) {
		if len(stats) > 0 {
			s.statTypes = stats
		}
	}
}

// WithRefreshInterval sets the periodic refresh interval. 0 disables the
// loop; refreshes are then caller-triggered only.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithHistoryRetention sets how far back line history is kept.
func WithHistoryRetention(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.historyRetention = d
		}
	}
}

// WithHistoryMaxEntries caps each key's line history length.
func WithHistoryMaxEntries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyMaxEntries = n
		}
	}
}

// WithBaselines sets the per-stat baseline rates.
func WithBaselines(baselines map[model.StatType]float64, defaultBaseline float64) Option {
	return func(s *Service) {
		if len(baselines) > 0 {
			s.baselines = baselines
		}
		if defaultBaseline > 0 {
			s.defaultBaseline = defaultBaseline
		}
	}
}

// WithClampBounds sets the form/team multiplier clamp band.
func WithClampBounds(minBound, maxBound float64) Option {
	return func(s *Service) {
		if minBound > 0 && maxBound >= minBound {
			s.clampMin = minBound
			s.clampMax = maxBound
		}
	}
}

// WithSampleThresholds sets the sample sizes signals need for a
// confidence bonus.
func WithSampleThresholds(formSampleMin, teamSampleMin int) Option {
	return func(s *Service) {
		if formSampleMin > 0 {
			s.formSampleMin = formSampleMin
		}
		if teamSampleMin > 0 {
			s.teamSampleMin = teamSampleMin
		}
	}
}

// WithMovementThresholds sets the absolute and relative significance
// thresholds for line movements.
func WithMovementThresholds(abs, rel float64) Option {
	return func(s *Service) {
		if abs > 0 {
			s.movementAbsThreshold = abs
		}
		if rel > 0 {
			s.movementRelThreshold = rel
		}
	}
}

// WithOpportunityThresholds sets per-stat opportunity thresholds and the
// default for stat types without an override.
func WithOpportunityThresholds(thresholds map[model.StatType]float64, defaultThreshold float64) Option {
	return func(s *Service) {
		if len(thresholds) > 0 {
			s.opportunityThresholds = thresholds
		}
		if defaultThreshold > 0 {
			s.opportunityDefault = defaultThreshold
		}
	}
}

// WithConfidenceFloor sets the minimum confidence that may produce an
// opportunity.
func WithConfidenceFloor(floor float64) Option {
	return func(s *Service) {
		if floor > 0 {
			s.confidenceFloor = floor
		}
	}
}
