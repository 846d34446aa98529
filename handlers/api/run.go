package api

import (
	"net/http"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/models"
	"github.com/nijaru/vidpost/services/pipeline"
)

type RunHandler struct {
	service pipeline.Service
}

func NewRunHandler(service pipeline.Service) *RunHandler {
	return &RunHandler{service: service}
}

// HandleGetRun handles GET /runs/{id}
func (h *RunHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "RunHandler.HandleGetRun"

	id := r.PathValue("id")
	if id == "" {
		respondError(w, r, errors.InvalidInput(op, nil, "Run ID is required"), "Failed to get run")
		return
	}

	run, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		respondError(w, r, err, "Failed to get run")
		return
	}

	respondJSON(w, r, http.StatusOK, models.NewRunResponse(run))
}
