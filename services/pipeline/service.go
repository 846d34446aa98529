package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/middleware"
	"github.com/nijaru/vidpost/models"
	"github.com/nijaru/vidpost/repository"
	"github.com/nijaru/vidpost/services/formatting"
	"github.com/nijaru/vidpost/services/transcription"
)

type service struct {
	validator   UploadValidator
	workspace   Workspace
	extractor   Extractor
	transcriber transcription.Service
	formatter   formatting.Service
	runs        repository.RunRepository
	archive     Archiver
	logger      *logrus.Logger
	newID       func() string
	now         func() time.Time
}

type Option func(*service)

// WithRunRepository enables the run ledger.
func WithRunRepository(runs repository.RunRepository) Option {
	return func(s *service) {
		s.runs = runs
	}
}

// WithArchive enables transcript archiving.
func WithArchive(archive Archiver) Option {
	return func(s *service) {
		s.archive = archive
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *service) {
		s.newID = fn
	}
}

func NewService(
	validator UploadValidator,
	workspace Workspace,
	extractor Extractor,
	transcriber transcription.Service,
	formatter formatting.Service,
	opts ...Option,
) Service {
	s := &service{
		validator:   validator,
		workspace:   workspace,
		extractor:   extractor,
		transcriber: transcriber,
		formatter:   formatter,
		logger:      logrus.StandardLogger(),
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Process(ctx context.Context, upload models.Upload, platforms []models.Platform) (*models.Result, error) {
	const op = "PipelineService.Process"

	if err := s.validator.ValidateUpload(upload.Filename); err != nil {
		return nil, err
	}

	start := s.now()
	run := &models.Run{
		ID:        s.newID(),
		Filename:  upload.Filename,
		Status:    models.StatusProcessing,
		Stage:     models.StageReceived,
		CreatedAt: start,
		UpdatedAt: start,
	}
	logger := s.loggerFor(ctx).WithFields(logrus.Fields{
		"run_id":   run.ID,
		"filename": upload.Filename,
	})
	s.record(ctx, logger, run)

	videoPath, size, err := s.workspace.Persist(run.ID, s.validator.SafeFilename(upload.Filename), upload.Body)
	if err != nil {
		return nil, s.fail(ctx, logger, run, errors.Internal(op, err, "Failed to save upload"))
	}
	defer s.cleanup(logger, videoPath, s.extractor.AudioPath(videoPath))

	logger.WithField("bytes", size).Info("Upload persisted")
	s.advance(ctx, logger, run, models.StagePersisted)

	audioPath, err := s.extractor.Extract(ctx, videoPath)
	if err != nil {
		return nil, s.fail(ctx, logger, run, err)
	}
	s.advance(ctx, logger, run, models.StageExtracted)
	s.cleanup(logger, videoPath)

	transcript, err := s.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, s.fail(ctx, logger, run, err)
	}
	run.TranscriptLength = len(transcript)
	s.advance(ctx, logger, run, models.StageTranscribed)
	s.cleanup(logger, audioPath)

	if s.archive != nil {
		if err := s.archive.SaveTranscript(ctx, run.ID, upload.Filename, transcript); err != nil {
			logger.WithError(err).Warn("Failed to archive transcript")
		}
	}

	result := &models.Result{
		RunID:      run.ID,
		Transcript: transcript,
	}

	if len(platforms) > 0 {
		variants, err := s.formatAll(ctx, logger, transcript, platforms)
		if err != nil {
			return nil, s.fail(ctx, logger, run, err)
		}
		result.Variants = variants
		run.Stage = models.StageFormatted
	}

	run.Status = models.StatusCompleted
	run.Duration = s.now().Sub(start)
	run.UpdatedAt = s.now()
	s.record(ctx, logger, run)

	logger.WithFields(logrus.Fields{
		"chars":    len(transcript),
		"duration": run.Duration,
	}).Info("Video processed")

	return result, nil
}

func (s *service) Format(ctx context.Context, transcript string, platforms []models.Platform) (map[models.Platform]string, error) {
	const op = "PipelineService.Format"

	if strings.TrimSpace(transcript) == "" {
		return nil, errors.InvalidInput(op, nil, "transcript is required")
	}
	if len(platforms) == 0 {
		platforms = models.AllPlatforms()
	}

	return s.formatAll(ctx, s.loggerFor(ctx), transcript, platforms)
}

func (s *service) GetRun(ctx context.Context, id string) (*models.Run, error) {
	const op = "PipelineService.GetRun"

	if s.runs == nil {
		return nil, errors.NotFound(op, nil, "Run not found")
	}
	return s.runs.Find(ctx, id)
}

// formatAll runs platforms in order and stops at the first failure.
func (s *service) formatAll(ctx context.Context, logger *logrus.Entry, transcript string, platforms []models.Platform) (map[models.Platform]string, error) {
	variants := make(map[models.Platform]string, len(platforms))
	for _, platform := range platforms {
		text, err := s.formatter.Format(ctx, transcript, platform)
		if err != nil {
			logger.WithError(err).WithField("platform", platform).Warn("Formatting failed")
			return nil, err
		}
		variants[platform] = text
	}
	return variants, nil
}

// loggerFor tags entries with the request id set by the HTTP middleware.
func (s *service) loggerFor(ctx context.Context) *logrus.Entry {
	entry := s.logger.WithContext(ctx)
	if id := middleware.GetRequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

func (s *service) cleanup(logger *logrus.Entry, paths ...string) {
	if err := s.workspace.Remove(paths...); err != nil {
		logger.WithError(err).Error("Failed to remove temporary files")
	}
}

func (s *service) advance(ctx context.Context, logger *logrus.Entry, run *models.Run, stage models.Stage) {
	run.Stage = stage
	run.UpdatedAt = s.now()
	logger.WithFields(logrus.Fields{
		"stage":   stage,
		"elapsed": run.UpdatedAt.Sub(run.CreatedAt),
	}).Debug("Stage finished")
	s.record(ctx, logger, run)
}

func (s *service) fail(ctx context.Context, logger *logrus.Entry, run *models.Run, err error) error {
	run.Status = models.StatusFailed
	run.Error = string(errors.KindOf(err))
	run.UpdatedAt = s.now()
	run.Duration = run.UpdatedAt.Sub(run.CreatedAt)
	s.record(ctx, logger, run)

	logger.WithError(err).WithField("stage", run.Stage).Error("Processing failed")
	return err
}

// record writes run to the ledger. Ledger failures never fail the request.
func (s *service) record(ctx context.Context, logger *logrus.Entry, run *models.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.WithError(err).Warn("Failed to record run")
	}
}
