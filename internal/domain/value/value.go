// Package value flags projections that disagree with a platform's posted
// line by enough, at enough confidence, to be actionable.
package value

import (
	"math"

	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/pkg/metrics"
)

// Default detector configuration constants.
const (
	defaultThreshold       = 1.5
	defaultConfidenceFloor = 60.0
)

// Detector compares a projection against each platform's current line.
type Detector struct {
	thresholds       map[model.StatType]float64
	defaultThreshold float64
	confidenceFloor  float64
}

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithThresholds sets per-stat opportunity thresholds and the default for
// stat types without an override.
func WithThresholds(thresholds map[model.StatType]float64, defaultThreshold float64) Option {
	return func(d *Detector) {
		d.thresholds = make(map[model.StatType]float64, len(thresholds))
		for stat, v := range thresholds {
			if v > 0 {
				d.thresholds[stat] = v
			}
		}
		if defaultThreshold > 0 {
			d.defaultThreshold = defaultThreshold
		}
	}
}

// WithConfidenceFloor sets the minimum confidence that may produce an
// opportunity.
func WithConfidenceFloor(floor float64) Option {
	return func(d *Detector) {
		if floor > 0 {
			d.confidenceFloor = floor
		}
	}
}

// New creates a Detector with defaults.
func New(opts ...Option) *Detector {
	d := &Detector{
		thresholds:       map[model.StatType]float64{},
		defaultThreshold: defaultThreshold,
		confidenceFloor:  defaultConfidenceFloor,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Evaluate compares one projection against each platform line for the same
// player and stat. Low-confidence projections never produce opportunities,
// regardless of how large the numeric gap is. Output order follows the
// input line order.
func (d *Detector) Evaluate(p model.Projection, lines []model.DFSLine) []model.ValueOpportunity {
	if p.Confidence < d.confidenceFloor {
		return nil
	}

	threshold := d.threshold(p.Stat)

	var out []model.ValueOpportunity
	for _, line := range lines {
		if line.Stat != p.Stat {
			continue
		}
		diff := round1(p.Value - line.Line)
		if math.Abs(diff) < threshold {
			continue
		}
		side := model.SideUnder
		if diff > 0 {
			side = model.SideOver
		}
		out = append(out, model.ValueOpportunity{
			Player:     p.Player,
			Stat:       p.Stat,
			Platform:   line.Platform,
			Projected:  p.Value,
			Line:       line.Line,
			Difference: diff,
			Side:       side,
			Confidence: p.Confidence,
		})
		metrics.RecordOpportunity()
	}
	return out
}

// Threshold reports the opportunity threshold for a stat type.
func (d *Detector) Threshold(stat model.StatType) float64 {
	return d.threshold(stat)
}

// ConfidenceFloor reports the configured confidence floor.
func (d *Detector) ConfidenceFloor() float64 {
	return d.confidenceFloor
}

func (d *Detector) threshold(stat model.StatType) float64 {
	if v, ok := d.thresholds[stat]; ok {
		return v
	}
	return d.defaultThreshold
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
