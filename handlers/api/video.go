package api

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/middleware"
	"github.com/nijaru/vidpost/models"
	"github.com/nijaru/vidpost/services/pipeline"
)

// multipartMemory is how much of an upload is buffered in memory before the
// multipart reader spills to a temp file.
const multipartMemory = 32 << 20

const processFailed = "Failed to process video"

type VideoHandler struct {
	service   pipeline.Service
	maxUpload int64
}

func NewVideoHandler(service pipeline.Service, maxUpload int64) *VideoHandler {
	return &VideoHandler{
		service:   service,
		maxUpload: maxUpload,
	}
}

// HandleProcess handles POST /process
func (h *VideoHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	const op = "VideoHandler.HandleProcess"
	logger := middleware.GetLogger(r.Context())

	if h.maxUpload > 0 {
		if r.ContentLength > h.maxUpload {
			respondError(w, r, errors.TooLarge(op, nil, "File too large"), processFailed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			respondError(w, r, errors.TooLarge(op, err, "File too large"), processFailed)
			return
		}
		respondError(w, r, errors.InvalidInput(op, err, "No video file provided"), processFailed)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := videoPart(r.MultipartForm)
	if err != nil {
		respondError(w, r, err, processFailed)
		return
	}
	defer file.Close()

	platforms, err := parsePlatformField(r.MultipartForm.Value["platforms"])
	if err != nil {
		respondError(w, r, errors.InvalidInput(op, err, err.Error()), processFailed)
		return
	}

	logger.WithFields(logrus.Fields{
		"filename":  header.Filename,
		"size":      header.Size,
		"platforms": platforms,
	}).Info("Received video")

	result, err := h.service.Process(r.Context(), models.Upload{
		Filename: header.Filename,
		Body:     file,
		Size:     header.Size,
	}, platforms)
	if err != nil {
		respondError(w, r, err, processFailed)
		return
	}

	response := map[string]string{"transcript": result.Transcript}
	for platform, text := range result.Variants {
		response[string(platform)] = text
	}

	w.Header().Set("X-Run-ID", result.RunID)
	respondJSON(w, r, http.StatusOK, response)
}

// videoPart finds the "video" file field. A part sent without a filename is
// parsed as a plain value, which is what browsers do for an empty file input.
func videoPart(form *multipart.Form) (multipart.File, *multipart.FileHeader, error) {
	const op = "api.videoPart"

	headers := form.File["video"]
	if len(headers) == 0 {
		if _, ok := form.Value["video"]; ok {
			return nil, nil, errors.InvalidInput(op, nil, "No file selected")
		}
		return nil, nil, errors.InvalidInput(op, nil, "No video file provided")
	}

	header := headers[0]
	if header.Filename == "" {
		return nil, nil, errors.InvalidInput(op, nil, "No file selected")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, errors.Internal(op, err, "Failed to open upload")
	}
	return file, header, nil
}

// parsePlatformField accepts repeated and comma separated values. No values
// means no formatting.
func parsePlatformField(values []string) ([]models.Platform, error) {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return models.ParsePlatforms(names)
}
