// Package projection computes per-player stat projections from baseline
// rates, recent form, and relative team strength.
package projection

import (
	"context"
	"math"

	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/pkg/metrics"
)

// Default model parameters.
const (
	defaultClampMin      = 0.85
	defaultClampMax      = 1.15
	defaultConfBase      = 70.0
	defaultConfBonus     = 15.0
	defaultConfCap       = 98.0
	defaultConfFloor     = 50.0
	defaultFormSampleMin = 5
	defaultTeamSampleMin = 10
	neutralMultiplier    = 1.0
)

// Form is a player's recent-form signal.
type Form struct {
	Multiplier float64
	SampleSize int
}

// Rating is a team's strength signal.
type Rating struct {
	Value      float64
	SampleSize int
}

// StatsProvider supplies recent per-player form and per-team strength
// signals. Implementations return ErrNoSignal (or any error) when a
// signal is unavailable; the model substitutes neutral defaults.
type StatsProvider interface {
	PlayerForm(ctx context.Context, player string) (Form, error)
	TeamRating(ctx context.Context, team string) (Rating, error)
}

// Model combines baseline stat rates with provider signals into a
// projected value and a confidence score. It is a pure function of its
// inputs plus provider lookups; caching is the provider's concern.
type Model struct {
	provider StatsProvider

	baselines       map[model.StatType]float64
	defaultBaseline float64

	clampMin float64
	clampMax float64

	confBase      float64
	confFormBonus float64
	confTeamBonus float64
	confCap       float64
	confFloor     float64

	formSampleMin int
	teamSampleMin int
}

// New constructs a Model backed by the given provider.
func New(provider StatsProvider, opts ...Option) *Model {
	m := &Model{
		provider:        provider,
		baselines:       map[model.StatType]float64{},
		defaultBaseline: 20.0,
		clampMin:        defaultClampMin,
		clampMax:        defaultClampMax,
		confBase:        defaultConfBase,
		confFormBonus:   defaultConfBonus,
		confTeamBonus:   defaultConfBonus,
		confCap:         defaultConfCap,
		confFloor:       defaultConfFloor,
		formSampleMin:   defaultFormSampleMin,
		teamSampleMin:   defaultTeamSampleMin,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Project builds a projection for one player stat. It never fails: any
// missing or erroring provider signal is replaced with the neutral
// multiplier and the confidence degraded accordingly.
func (m *Model) Project(ctx context.Context, player, team, opponent string, stat model.StatType) model.Projection {
	baseline := m.baseline(stat)

	form, formDefaulted := m.playerForm(ctx, player)
	teamRating, teamDefaulted := m.teamRating(ctx, team, "team_rating")
	oppRating, _ := m.teamRating(ctx, opponent, "opponent_rating")

	formMult := m.clamp(form.Multiplier)

	// Opponent strength dampens or boosts the team multiplier symmetrically,
	// clamped back into the same band as the raw ratings.
	effective := m.clamp(teamRating.Value / oppRating.Value)

	value := round1(baseline * formMult * effective)

	confidence := m.confidence(form, formDefaulted, teamRating, teamDefaulted)

	metrics.RecordProjection()

	return model.Projection{
		Player:         player,
		Team:           team,
		Stat:           stat,
		Value:          value,
		Confidence:     confidence,
		FormMultiplier: formMult,
		TeamRating:     teamRating.Value,
		OpponentRating: oppRating.Value,
	}
}

// Baselines returns a copy of the configured baseline rates.
func (m *Model) Baselines() map[model.StatType]float64 {
	out := make(map[model.StatType]float64, len(m.baselines))
	for k, v := range m.baselines {
		out[k] = v
	}
	return out
}

// Info reports the model configuration for the dashboard's settings pane.
func (m *Model) Info() map[string]interface{} {
	return map[string]interface{}{
		"model_version":    "1.0",
		"model_type":       "baseline_form_strength",
		"baselines":        m.Baselines(),
		"default_baseline": m.defaultBaseline,
		"clamp_min":        m.clampMin,
		"clamp_max":        m.clampMax,
		"confidence_base":  m.confBase,
		"confidence_cap":   m.confCap,
		"confidence_floor": m.confFloor,
		"form_sample_min":  m.formSampleMin,
		"team_sample_min":  m.teamSampleMin,
	}
}

func (m *Model) baseline(stat model.StatType) float64 {
	if b, ok := m.baselines[stat]; ok {
		return b
	}
	return m.defaultBaseline
}

func (m *Model) playerForm(ctx context.Context, player string) (Form, bool) {
	form, err := m.provider.PlayerForm(ctx, player)
	if err != nil || form.Multiplier <= 0 {
		metrics.RecordProviderFallback("player_form")
		return Form{Multiplier: neutralMultiplier}, true
	}
	return form, false
}

func (m *Model) teamRating(ctx context.Context, team, signal string) (Rating, bool) {
	rating, err := m.provider.TeamRating(ctx, team)
	if err != nil || rating.Value <= 0 {
		metrics.RecordProviderFallback(signal)
		return Rating{Value: neutralMultiplier}, true
	}
	return rating, false
}

// confidence scores how much real data backed the projection inputs.
func (m *Model) confidence(form Form, formDefaulted bool, teamRating Rating, teamDefaulted bool) float64 {
	if formDefaulted && teamDefaulted {
		return m.confFloor
	}
	conf := m.confBase
	if !formDefaulted && form.SampleSize >= m.formSampleMin {
		conf += m.confFormBonus
	}
	if !teamDefaulted && teamRating.SampleSize >= m.teamSampleMin {
		conf += m.confTeamBonus
	}
	return math.Min(conf, m.confCap)
}

func (m *Model) clamp(v float64) float64 {
	return math.Max(m.clampMin, math.Min(m.clampMax, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
