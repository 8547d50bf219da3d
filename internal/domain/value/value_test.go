package value_test

import (
	"testing"

	"github.com/nvoss/propsight/internal/domain/model"
	value "github.com/nvoss/propsight/internal/domain/value"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDetector_Evaluate(t *testing.T) {
	Convey("Given a detector with per-stat thresholds", t, func() {
		detector := value.New(
			value.WithThresholds(map[model.StatType]float64{
				model.StatKills:     3.0,
				model.StatHeadshots: 2.0,
			}, 1.5),
			value.WithConfidenceFloor(60),
		)

		proj := model.Projection{
			Player:     "s1mple",
			Team:       "navi",
			Stat:       model.StatKills,
			Value:      45.0,
			Confidence: 85,
		}

		Convey("When the projection sits well above a platform line", func() {
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatKills, Line: 41.5},
			}
			opps := detector.Evaluate(proj, lines)

			Convey("Then an over opportunity is flagged", func() {
				So(len(opps), ShouldEqual, 1)
				So(opps[0].Side, ShouldEqual, model.SideOver)
				So(opps[0].Difference, ShouldEqual, 3.5)
				So(opps[0].Platform, ShouldEqual, model.PlatformPrizePicks)
				So(opps[0].Confidence, ShouldEqual, 85.0)
			})
		})

		Convey("When the projection sits well below a platform line", func() {
			lines := []model.DFSLine{
				{Platform: model.PlatformUnderdog, Stat: model.StatKills, Line: 48.5},
			}
			opps := detector.Evaluate(proj, lines)

			Convey("Then an under opportunity is flagged", func() {
				So(len(opps), ShouldEqual, 1)
				So(opps[0].Side, ShouldEqual, model.SideUnder)
				So(opps[0].Difference, ShouldEqual, -3.5)
			})
		})

		Convey("When the gap is under the stat threshold", func() {
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatKills, Line: 42.5},
			}

			Convey("Then no opportunity is flagged", func() {
				So(detector.Evaluate(proj, lines), ShouldBeEmpty)
			})
		})

		Convey("When the confidence is below the floor", func() {
			lowConf := proj
			lowConf.Confidence = 55
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatKills, Line: 40.0},
			}

			Convey("Then even a large gap produces nothing", func() {
				So(detector.Evaluate(lowConf, lines), ShouldBeEmpty)
			})
		})

		Convey("When a line is for a different stat", func() {
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatHeadshots, Line: 12.5},
			}

			Convey("Then it is skipped", func() {
				So(detector.Evaluate(proj, lines), ShouldBeEmpty)
			})
		})

		Convey("When several platforms quote the same stat", func() {
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatKills, Line: 41.5},
				{Platform: model.PlatformUnderdog, Stat: model.StatKills, Line: 44.5},
			}
			opps := detector.Evaluate(proj, lines)

			Convey("Then each line is judged independently, in input order", func() {
				So(len(opps), ShouldEqual, 1)
				So(opps[0].Platform, ShouldEqual, model.PlatformPrizePicks)
			})
		})

		Convey("When the stat has no threshold override", func() {
			assists := model.Projection{
				Player: "s1mple", Stat: model.StatType("assists"),
				Value: 12.0, Confidence: 85,
			}
			lines := []model.DFSLine{
				{Platform: model.PlatformPrizePicks, Stat: model.StatType("assists"), Line: 10.0},
			}
			opps := detector.Evaluate(assists, lines)

			Convey("Then the default threshold applies", func() {
				So(len(opps), ShouldEqual, 1)
				So(opps[0].Difference, ShouldEqual, 2.0)
			})
		})
	})
}

func TestDetector_Thresholds(t *testing.T) {
	Convey("Given a detector with overrides", t, func() {
		detector := value.New(
			value.WithThresholds(map[model.StatType]float64{model.StatHeadshots: 2.0}, 1.5),
		)

		Convey("Then overridden stats use their own threshold", func() {
			So(detector.Threshold(model.StatHeadshots), ShouldEqual, 2.0)
		})

		Convey("And unknown stats use the default", func() {
			So(detector.Threshold(model.StatKills), ShouldEqual, 1.5)
		})

		Convey("And the floor default survives construction", func() {
			So(detector.ConfidenceFloor(), ShouldEqual, 60.0)
		})
	})
}
