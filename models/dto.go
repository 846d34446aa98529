package models

// FormatRequest is the JSON body accepted by POST /format.
type FormatRequest struct {
	Transcript string   `json:"transcript" validate:"required"`
	Platforms  []string `json:"platforms,omitempty" validate:"omitempty,dive,required"`
}

// RunResponse is the public view of a Run.
type RunResponse struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	Status           Status `json:"status"`
	Stage            Stage  `json:"stage"`
	Error            string `json:"error,omitempty"`
	TranscriptLength int    `json:"transcript_length"`
	DurationMS       int64  `json:"duration_ms"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func NewRunResponse(r *Run) *RunResponse {
	return &RunResponse{
		ID:               r.ID,
		Filename:         r.Filename,
		Status:           r.Status,
		Stage:            r.Stage,
		Error:            r.Error,
		TranscriptLength: r.TranscriptLength,
		DurationMS:       r.Duration.Milliseconds(),
		CreatedAt:        r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        r.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
