package api

import (
	"errors"
	"net/http"

	service "github.com/nvoss/propsight/internal/app"
)

// RefreshHandler triggers aggregation cycles on demand.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /api/refresh requests.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	result, err := h.deps.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrRefreshInFlight) {
			writeError(w, http.StatusConflict, "refresh_in_flight", WrapKind(op, ErrRefreshBusy, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
