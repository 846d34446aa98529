package pipeline

import (
	"context"
	"io"

	"github.com/nijaru/vidpost/models"
)

type Service interface {
	// Process runs an upload through persist, extract and transcribe, and
	// formats the transcript for each requested platform. Temporary files
	// are removed before it returns, whatever the outcome.
	Process(ctx context.Context, upload models.Upload, platforms []models.Platform) (*models.Result, error)

	// Format rewrites an existing transcript for each platform. An empty
	// list means every platform. The first failure aborts the call and no
	// partial result is returned.
	Format(ctx context.Context, transcript string, platforms []models.Platform) (map[models.Platform]string, error)

	// GetRun returns the ledger entry for a processing run.
	GetRun(ctx context.Context, id string) (*models.Run, error)
}

type UploadValidator interface {
	ValidateUpload(filename string) error
	SafeFilename(filename string) string
}

type Workspace interface {
	Persist(id, filename string, r io.Reader) (string, int64, error)
	Remove(paths ...string) error
}

type Extractor interface {
	// AudioPath names the file Extract writes for videoPath, so partial
	// output can be removed when extraction fails.
	AudioPath(videoPath string) string
	Extract(ctx context.Context, videoPath string) (string, error)
}

// Archiver keeps a copy of finished transcripts outside the process.
type Archiver interface {
	SaveTranscript(ctx context.Context, runID, filename, text string) error
}
