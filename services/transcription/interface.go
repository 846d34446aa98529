package transcription

import (
	"context"
)

// Service turns an audio file into plain text.
type Service interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
