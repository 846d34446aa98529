package api

import (
	"net/http"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/middleware"
	"github.com/nijaru/vidpost/models"
	"github.com/nijaru/vidpost/services/pipeline"
	"github.com/nijaru/vidpost/validation"
)

const (
	maxFormatBody = 5 << 20
	formatFailed  = "Failed to format transcript"
)

type FormatHandler struct {
	service   pipeline.Service
	validator *validation.Validator
}

func NewFormatHandler(service pipeline.Service, validator *validation.Validator) *FormatHandler {
	return &FormatHandler{
		service:   service,
		validator: validator,
	}
}

// HandleFormat handles POST /format
func (h *FormatHandler) HandleFormat(w http.ResponseWriter, r *http.Request) {
	const op = "FormatHandler.HandleFormat"

	if err := h.validator.ValidateRequest(r, validation.RequestValidationOpts{
		MaxContentLength: maxFormatBody,
		RequireJSON:      true,
	}); err != nil {
		respondError(w, r, err, formatFailed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormatBody)

	var req models.FormatRequest
	if err := readJSON(r, &req); err != nil {
		respondError(w, r, err, formatFailed)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, err, formatFailed)
		return
	}

	platforms, err := models.ParsePlatforms(req.Platforms)
	if err != nil {
		respondError(w, r, errors.InvalidInput(op, err, err.Error()), formatFailed)
		return
	}

	middleware.GetLogger(r.Context()).
		WithField("platforms", platforms).
		Info("Formatting transcript")

	variants, err := h.service.Format(r.Context(), req.Transcript, platforms)
	if err != nil {
		respondError(w, r, err, formatFailed)
		return
	}

	respondJSON(w, r, http.StatusOK, variants)
}
