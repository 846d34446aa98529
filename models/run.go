package models

import (
	"time"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Stage string

const (
	StageReceived    Stage = "received"
	StagePersisted   Stage = "persisted"
	StageExtracted   Stage = "extracted"
	StageTranscribed Stage = "transcribed"
	StageFormatted   Stage = "formatted"
)

// Run is the ledger entry for one pipeline execution. It never holds the
// transcript itself.
type Run struct {
	ID               string        `json:"id"`
	Filename         string        `json:"filename"`
	Status           Status        `json:"status"`
	Stage            Stage         `json:"stage"`
	Error            string        `json:"error,omitempty"`
	TranscriptLength int           `json:"transcript_length"`
	Duration         time.Duration `json:"duration"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (r *Run) IsProcessing() bool { return r.Status == StatusProcessing }
func (r *Run) IsCompleted() bool  { return r.Status == StatusCompleted }
func (r *Run) IsFailed() bool     { return r.Status == StatusFailed }
