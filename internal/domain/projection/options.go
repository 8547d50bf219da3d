package projection

import "github.com/nvoss/propsight/internal/domain/model"

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithBaselines sets the per-stat baseline rates.
func WithBaselines(baselines map[model.StatType]float64, defaultBaseline float64) Option {
	return func(m *Model) {
		m.baselines = make(map[model.StatType]float64, len(baselines))
		for stat, rate := range baselines {
			if rate > 0 {
				m.baselines[stat] = rate
			}
		}
		if defaultBaseline > 0 {
			m.defaultBaseline = defaultBaseline
		}
	}
}

// WithClampBounds sets the band form and team multipliers are clamped to.
func WithClampBounds(minBound, maxBound float64) Option {
	return func(m *Model) {
		if minBound > 0 && maxBound >= minBound {
			m.clampMin = minBound
			m.clampMax = maxBound
		}
	}
}

// WithSampleThresholds sets the sample sizes a signal needs before it
// earns a confidence bonus.
func WithSampleThresholds(formSampleMin, teamSampleMin int) Option {
	return func(m *Model) {
		if formSampleMin > 0 {
			m.formSampleMin = formSampleMin
		}
		if teamSampleMin > 0 {
			m.teamSampleMin = teamSampleMin
		}
	}
}
