package api

import (
	"net/http"

	"github.com/nvoss/propsight/internal/domain/model"
)

// MovementsHandler serves line movement records and tracker counts.
type MovementsHandler struct {
	deps Dependencies
}

// NewMovementsHandler creates a new movements handler.
func NewMovementsHandler(deps Dependencies) *MovementsHandler {
	return &MovementsHandler{deps: deps}
}

type movementsResponse struct {
	Movements []model.LineMovementRecord `json:"movements"`
	Total     int                        `json:"total_movements"`
	Summary   model.TrackerSummary       `json:"tracker_stats"`
}

// HandleMovements handles GET /api/line-movements requests.
func (h *MovementsHandler) HandleMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	movements := h.deps.Movements(r.Context())
	writeJSON(w, http.StatusOK, movementsResponse{
		Movements: movements,
		Total:     len(movements),
		Summary:   h.deps.TrackerSummary(r.Context()),
	})
}

type significantResponse struct {
	Movements []model.LineMovementRecord `json:"significant_movements"`
	Count     int                        `json:"count"`
}

// HandleSignificant handles GET /api/line-movements/significant requests.
func (h *MovementsHandler) HandleSignificant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	movements := h.deps.SignificantMovements(r.Context())
	writeJSON(w, http.StatusOK, significantResponse{
		Movements: movements,
		Count:     len(movements),
	})
}

// HandleSummary handles GET /api/line-movements/summary requests.
func (h *MovementsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.TrackerSummary(r.Context()))
}
