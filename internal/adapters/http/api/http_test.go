package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/nvoss/propsight/internal/adapters/http/api"
	"github.com/nvoss/propsight/internal/adapters/repository"
	service "github.com/nvoss/propsight/internal/app"
	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps satisfies api.Dependencies with canned data.
type mockDeps struct {
	refreshErr error
	bundles    []model.MatchBundle
	manual     types.BatchResult

	manualPlatform string
	manualRows     []types.ManualLine
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		bundles: []model.MatchBundle{
			{
				Match: model.Match{ID: "m1", Team1: "Navi", Team2: "FaZe Clan", Status: "upcoming"},
				Projections: []model.AnnotatedProjection{
					{Projection: model.Projection{Player: "s1mple", Stat: model.StatKills, Value: 40.5, Confidence: 98}},
				},
			},
		},
	}
}

func (m *mockDeps) Refresh(_ context.Context) (types.RefreshResult, error) {
	if m.refreshErr != nil {
		return types.RefreshResult{}, m.refreshErr
	}
	return types.RefreshResult{Matches: 1, Projections: 1, LastRefresh: time.Now()}, nil
}

func (m *mockDeps) Bundles(_ context.Context) []model.MatchBundle { return m.bundles }

func (m *mockDeps) Bundle(_ context.Context, id string) (model.MatchBundle, error) {
	for _, b := range m.bundles {
		if b.Match.ID == id {
			return b, nil
		}
	}
	return model.MatchBundle{}, repository.ErrNotFound
}

func (m *mockDeps) Stats(_ context.Context) types.AggregateStats {
	return types.AggregateStats{TotalMatches: 1, TotalProjections: 1, AvgConfidence: 98}
}

func (m *mockDeps) Movements(_ context.Context) []model.LineMovementRecord {
	return []model.LineMovementRecord{
		{
			Key:         model.NewStatKey("s1mple", model.StatKills, model.PlatformPrizePicks),
			CurrentLine: 36.5,
			Direction:   model.DirectionNew,
		},
	}
}

func (m *mockDeps) SignificantMovements(_ context.Context) []model.LineMovementRecord { return nil }

func (m *mockDeps) TrackerSummary(_ context.Context) model.TrackerSummary {
	return model.TrackerSummary{TrackedPlayers: 1, TrackedKeys: 1, MovementsRecorded: 1}
}

func (m *mockDeps) ModelInfo(_ context.Context) map[string]interface{} {
	return map[string]interface{}{"model_version": "1.0"}
}

func (m *mockDeps) ApplyManualLines(_ context.Context, platform string, rows []types.ManualLine) types.BatchResult {
	m.manualPlatform = platform
	m.manualRows = rows
	return m.manual
}

func newTestMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func TestServer_Matches(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		Convey("When listing matches", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/matches", nil))

			Convey("Then the snapshot is returned as JSON", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var bundles []model.MatchBundle
				So(json.Unmarshal(rec.Body.Bytes(), &bundles), ShouldBeNil)
				So(len(bundles), ShouldEqual, 1)
				So(bundles[0].Match.Team1, ShouldEqual, "Navi")
			})
		})

		Convey("When fetching one match by id", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/matches/m1", nil))

			Convey("Then the bundle is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var bundle model.MatchBundle
				So(json.Unmarshal(rec.Body.Bytes(), &bundle), ShouldBeNil)
				So(bundle.Match.ID, ShouldEqual, "m1")
				So(len(bundle.Projections), ShouldEqual, 1)
			})
		})

		Convey("When fetching an unknown match", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/matches/nope", nil))

			Convey("Then it is a 404 with an error body", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(rec.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When posting to a read-only route", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/matches", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Refresh(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := newMockDeps()
		mux := newTestMux(deps)

		Convey("When triggering a refresh", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

			Convey("Then the cycle result is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var result types.RefreshResult
				So(json.Unmarshal(rec.Body.Bytes(), &result), ShouldBeNil)
				So(result.Matches, ShouldEqual, 1)
			})
		})

		Convey("When a refresh is already in flight", func() {
			deps.refreshErr = service.ErrRefreshInFlight
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

			Convey("Then the request conflicts instead of queuing", func() {
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(rec.Body.String(), ShouldContainSubstring, "refresh_in_flight")
			})
		})

		Convey("When refreshing with GET", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/refresh", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Movements(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(newMockDeps())

		Convey("When listing line movements", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/line-movements", nil))

			Convey("Then movements come with totals and tracker stats", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body struct {
					Movements []model.LineMovementRecord `json:"movements"`
					Total     int                        `json:"total_movements"`
					Summary   model.TrackerSummary       `json:"tracker_stats"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Total, ShouldEqual, 1)
				So(body.Summary.TrackedKeys, ShouldEqual, 1)
			})
		})

		Convey("When listing significant movements", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/line-movements/significant", nil))

			Convey("Then the count matches the list", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "\"count\":0")
			})
		})

		Convey("When asking for the tracker summary", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/line-movements/summary", nil))

			Convey("Then the aggregate counts are served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var summary model.TrackerSummary
				So(json.Unmarshal(rec.Body.Bytes(), &summary), ShouldBeNil)
				So(summary.TrackedPlayers, ShouldEqual, 1)
			})
		})
	})
}

func TestServer_StatsAndModelInfo(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(newMockDeps())

		Convey("When asking for aggregate stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

			Convey("Then the snapshot aggregates are served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var stats types.AggregateStats
				So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
				So(stats.TotalMatches, ShouldEqual, 1)
				So(stats.AvgConfidence, ShouldEqual, 98.0)
			})
		})

		Convey("When asking for the model info", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/model-info", nil))

			Convey("Then the model configuration is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "model_version")
			})
		})
	})
}

func TestServer_ManualImport(t *testing.T) {
	Convey("Given the API routes", t, func() {
		deps := newMockDeps()
		deps.manual = types.BatchResult{Accepted: 2, Rejected: 1, Errors: []string{"row 3: missing player_name"}}
		mux := newTestMux(deps)

		Convey("When importing lines for a platform", func() {
			body := `{"lines":[{"player_name":"NiKo","stat_type":"kills","line":28.5}]}`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lines/underdog", strings.NewReader(body)))

			Convey("Then the batch result is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var result types.BatchResult
				So(json.Unmarshal(rec.Body.Bytes(), &result), ShouldBeNil)
				So(result.Accepted, ShouldEqual, 2)
				So(result.Rejected, ShouldEqual, 1)
			})

			Convey("And the platform from the path reaches the service", func() {
				So(deps.manualPlatform, ShouldEqual, "underdog")
				So(len(deps.manualRows), ShouldEqual, 1)
			})
		})

		Convey("When the body is not JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lines/underdog", strings.NewReader("not json")))

			Convey("Then it is a 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the batch is empty", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lines/underdog", strings.NewReader(`{"lines":[]}`)))

			Convey("Then it is a 400 with a reason", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "empty")
			})
		})

		Convey("When the platform segment is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/lines/", strings.NewReader(`{"lines":[]}`)))

			Convey("Then it is a 400", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_Health(t *testing.T) {
	Convey("Given the API routes", t, func() {
		mux := newTestMux(newMockDeps())

		Convey("When probing the health endpoint", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it serves the metrics exposition", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "propsight")
			})
		})
	})
}
