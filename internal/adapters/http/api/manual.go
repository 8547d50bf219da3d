package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nvoss/propsight/internal/domain/types"
)

// ManualLinesHandler accepts operator-pasted bulk line imports for one
// platform, already parsed upstream into structured rows.
type ManualLinesHandler struct {
	deps Dependencies
}

// NewManualLinesHandler creates a new manual import handler.
func NewManualLinesHandler(deps Dependencies) *ManualLinesHandler {
	return &ManualLinesHandler{deps: deps}
}

type manualImportRequest struct {
	Lines []types.ManualLine `json:"lines"`
}

// HandleImport handles POST /api/lines/{platform} requests.
func (h *ManualLinesHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.manual_lines"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	platform := strings.TrimPrefix(r.URL.Path, "/api/lines/")
	if platform == "" || strings.Contains(platform, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req manualImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrEmptyBatch))
		return
	}

	result := h.deps.ApplyManualLines(r.Context(), platform, req.Lines)
	writeJSON(w, http.StatusOK, result)
}
