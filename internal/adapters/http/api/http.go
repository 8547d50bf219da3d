// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nvoss/propsight/internal/domain/model"
	"github.com/nvoss/propsight/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Refresh runs one aggregation cycle. Cycles are serialized.
	Refresh(ctx context.Context) (types.RefreshResult, error)

	// Read operations expose the refreshed snapshot.
	Bundles(ctx context.Context) []model.MatchBundle
	Bundle(ctx context.Context, id string) (model.MatchBundle, error)
	Stats(ctx context.Context) types.AggregateStats
	Movements(ctx context.Context) []model.LineMovementRecord
	SignificantMovements(ctx context.Context) []model.LineMovementRecord
	TrackerSummary(ctx context.Context) model.TrackerSummary
	ModelInfo(ctx context.Context) map[string]interface{}

	// ApplyManualLines feeds a manual bulk import for one platform.
	ApplyManualLines(ctx context.Context, platform string, rows []types.ManualLine) types.BatchResult
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	matchesHandler   *MatchesHandler
	refreshHandler   *RefreshHandler
	statsHandler     *StatsHandler
	movementsHandler *MovementsHandler
	manualHandler    *ManualLinesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		matchesHandler:   NewMatchesHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
		statsHandler:     NewStatsHandler(deps),
		movementsHandler: NewMovementsHandler(deps),
		manualHandler:    NewManualLinesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/matches", MetricsMiddleware(s.matchesHandler.HandleListMatches, "matches"))
	mux.HandleFunc("/api/matches/", MetricsMiddleware(s.matchesHandler.HandleGetMatch, "match_detail"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/model-info", MetricsMiddleware(s.statsHandler.HandleModelInfo, "model_info"))
	mux.HandleFunc("/api/line-movements", MetricsMiddleware(s.movementsHandler.HandleMovements, "line_movements"))
	mux.HandleFunc("/api/line-movements/significant", MetricsMiddleware(s.movementsHandler.HandleSignificant, "line_movements_significant"))
	mux.HandleFunc("/api/line-movements/summary", MetricsMiddleware(s.movementsHandler.HandleSummary, "line_movements_summary"))
	mux.HandleFunc("/api/lines/", MetricsMiddleware(s.manualHandler.HandleImport, "manual_lines"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
