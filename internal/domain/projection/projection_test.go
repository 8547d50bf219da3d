package projection_test

import (
	"context"
	"testing"

	"github.com/nvoss/propsight/internal/domain/model"
	projection "github.com/nvoss/propsight/internal/domain/projection"
	. "github.com/smartystreets/goconvey/convey"
)

// stubProvider returns canned signals keyed by name.
type stubProvider struct {
	forms   map[string]projection.Form
	ratings map[string]projection.Rating
}

func (p *stubProvider) PlayerForm(_ context.Context, player string) (projection.Form, error) {
	form, ok := p.forms[player]
	if !ok {
		return projection.Form{}, projection.ErrNoSignal
	}
	return form, nil
}

func (p *stubProvider) TeamRating(_ context.Context, team string) (projection.Rating, error) {
	rating, ok := p.ratings[team]
	if !ok {
		return projection.Rating{}, projection.ErrNoSignal
	}
	return rating, nil
}

func TestModel_Project(t *testing.T) {
	Convey("Given a projection model with full provider signals", t, func() {
		provider := &stubProvider{
			forms: map[string]projection.Form{
				"s1mple": {Multiplier: 1.10, SampleSize: 8},
			},
			ratings: map[string]projection.Rating{
				"navi": {Value: 1.15, SampleSize: 12},
				"ence": {Value: 1.00, SampleSize: 12},
			},
		}
		m := projection.New(provider,
			projection.WithBaselines(map[model.StatType]float64{model.StatKills: 20.0}, 20.0),
		)

		Convey("When projecting a player with strong form on a strong team", func() {
			proj := m.Project(context.Background(), "s1mple", "navi", "ence", model.StatKills)

			Convey("Then the value is baseline times form times clamped strength", func() {
				// 20.0 * 1.10 * 1.15 = 25.3
				So(proj.Value, ShouldEqual, 25.3)
				So(proj.FormMultiplier, ShouldEqual, 1.10)
				So(proj.TeamRating, ShouldEqual, 1.15)
				So(proj.OpponentRating, ShouldEqual, 1.00)
			})

			Convey("And both sample bonuses apply to the confidence", func() {
				So(proj.Confidence, ShouldEqual, 98.0) // 70 + 15 + 15 capped at 98
			})
		})

		Convey("When the team/opponent ratio exceeds the clamp band", func() {
			provider.ratings["faze clan"] = projection.Rating{Value: 0.80, SampleSize: 12}
			proj := m.Project(context.Background(), "s1mple", "navi", "faze clan", model.StatKills)

			Convey("Then the effective strength is clamped to the band max", func() {
				// 1.15 / 0.80 = 1.4375, clamped to 1.15: 20.0 * 1.10 * 1.15 = 25.3
				So(proj.Value, ShouldEqual, 25.3)
			})
		})

		Convey("When projecting an unknown player", func() {
			proj := m.Project(context.Background(), "nobody", "navi", "ence", model.StatKills)

			Convey("Then the form falls back to neutral", func() {
				So(proj.FormMultiplier, ShouldEqual, 1.0)
				// 20.0 * 1.0 * 1.15 = 23.0
				So(proj.Value, ShouldEqual, 23.0)
			})

			Convey("And the confidence loses the form bonus", func() {
				So(proj.Confidence, ShouldEqual, 85.0) // 70 + 15 (team only)
			})
		})

		Convey("When both form and team signals are missing", func() {
			proj := m.Project(context.Background(), "nobody", "unknown fc", "ence", model.StatKills)

			Convey("Then the projection is the bare baseline", func() {
				So(proj.Value, ShouldEqual, 20.0)
			})

			Convey("And the confidence drops to the floor", func() {
				So(proj.Confidence, ShouldEqual, 50.0)
			})
		})

		Convey("When projecting a stat without a configured baseline", func() {
			proj := m.Project(context.Background(), "s1mple", "navi", "ence", model.StatType("assists"))

			Convey("Then the default baseline applies", func() {
				// 20.0 * 1.10 * 1.15 = 25.3
				So(proj.Value, ShouldEqual, 25.3)
			})
		})
	})

	Convey("Given a model with raised sample thresholds", t, func() {
		provider := &stubProvider{
			forms: map[string]projection.Form{
				"rookie": {Multiplier: 1.05, SampleSize: 3},
			},
			ratings: map[string]projection.Rating{
				"navi": {Value: 1.10, SampleSize: 4},
				"ence": {Value: 1.00, SampleSize: 4},
			},
		}
		m := projection.New(provider,
			projection.WithSampleThresholds(5, 10),
		)

		Convey("When signals exist but are too thin", func() {
			proj := m.Project(context.Background(), "rookie", "navi", "ence", model.StatKills)

			Convey("Then the confidence stays at the base without bonuses", func() {
				So(proj.Confidence, ShouldEqual, 70.0)
			})
		})
	})
}

func TestModel_Confidence_Bounds(t *testing.T) {
	Convey("Given any combination of provider signals", t, func() {
		cases := []struct {
			name       string
			form       projection.Form
			rating     projection.Rating
			skipAll    bool
			wantMinMax [2]float64
		}{
			{name: "rich signals", form: projection.Form{Multiplier: 1.1, SampleSize: 20}, rating: projection.Rating{Value: 1.1, SampleSize: 20}},
			{name: "thin signals", form: projection.Form{Multiplier: 1.0, SampleSize: 1}, rating: projection.Rating{Value: 1.0, SampleSize: 1}},
			{name: "no signals", skipAll: true},
		}

		for _, tc := range cases {
			provider := &stubProvider{forms: map[string]projection.Form{}, ratings: map[string]projection.Rating{}}
			if !tc.skipAll {
				provider.forms["p"] = tc.form
				provider.ratings["t"] = tc.rating
				provider.ratings["o"] = tc.rating
			}
			m := projection.New(provider)

			Convey("Then confidence stays within [50, 98] for "+tc.name, func() {
				proj := m.Project(context.Background(), "p", "t", "o", model.StatKills)
				So(proj.Confidence, ShouldBeGreaterThanOrEqualTo, 50.0)
				So(proj.Confidence, ShouldBeLessThanOrEqualTo, 98.0)
			})
		}
	})
}

func TestModel_Info(t *testing.T) {
	Convey("Given a configured model", t, func() {
		m := projection.New(&stubProvider{},
			projection.WithBaselines(map[model.StatType]float64{model.StatKills: 32.0, model.StatHeadshots: 16.0}, 20.0),
			projection.WithClampBounds(0.85, 1.15),
		)

		Convey("When reading the model info", func() {
			info := m.Info()

			Convey("Then it reports the configuration surface", func() {
				So(info["model_type"], ShouldEqual, "baseline_form_strength")
				So(info["default_baseline"], ShouldEqual, 20.0)
				So(info["clamp_min"], ShouldEqual, 0.85)
				So(info["clamp_max"], ShouldEqual, 1.15)
			})

			Convey("And the baselines are a copy", func() {
				baselines, ok := info["baselines"].(map[model.StatType]float64)
				So(ok, ShouldBeTrue)
				baselines[model.StatKills] = 0
				So(m.Baselines()[model.StatKills], ShouldEqual, 32.0)
			})
		})
	})
}
