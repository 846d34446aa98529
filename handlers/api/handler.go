package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		middleware.GetLogger(r.Context()).WithError(err).Error("Failed to encode response")
	}
}

// respondError writes err as {"error": ...}. Client errors carry their own
// message; server errors are logged in full and answered with fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	code := errors.StatusCode(err)
	msg := fallback

	var appErr *errors.AppError
	if code < http.StatusInternalServerError && stderrors.As(err, &appErr) {
		msg = appErr.Message
	}

	logger := middleware.GetLogger(r.Context()).WithFields(logrus.Fields{
		"error":  err,
		"status": code,
		"kind":   errors.KindOf(err),
	})
	if code >= http.StatusInternalServerError {
		logger.Error("Request failed")
	} else {
		logger.Warn("Request rejected")
	}

	respondJSON(w, r, code, errorResponse{Error: msg})
}

func readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.TooLarge("readJSON", err, "Request body too large")
		}
		return errors.InvalidInput("readJSON", err, "Invalid JSON format")
	}
	return nil
}
