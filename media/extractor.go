package media

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
)

// AudioSuffix is appended to a video path to name its extracted audio.
const AudioSuffix = "_audio.mp3"

func AudioPathFor(videoPath string) string {
	return videoPath + AudioSuffix
}

type Extractor struct {
	locator Locator
	runner  Runner
	codec   string
	quality string
	timeout time.Duration
	logger  *logrus.Logger
}

func NewExtractor(cfg config.ExtractorConfig, locator Locator, runner Runner, logger *logrus.Logger) *Extractor {
	codec := cfg.Codec
	if codec == "" {
		codec = "libmp3lame"
	}
	quality := cfg.Quality
	if quality == "" {
		quality = "2"
	}
	return &Extractor{
		locator: locator,
		runner:  runner,
		codec:   codec,
		quality: quality,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (e *Extractor) AudioPath(videoPath string) string {
	return AudioPathFor(videoPath)
}

// Extract strips the video stream from videoPath and writes the audio track
// to AudioPathFor(videoPath), overwriting any existing file.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (string, error) {
	const op = "Extractor.Extract"

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	bin, err := e.locator.Locate(ctx)
	if err != nil {
		return "", errors.Extraction(op, err, "Audio extraction tool not available")
	}

	audioPath := e.AudioPath(videoPath)
	start := time.Now()
	if _, err := e.runner.Run(ctx, bin, e.args(videoPath, audioPath)...); err != nil {
		return "", errors.Extraction(op, err, "Audio extraction failed")
	}

	e.logger.WithFields(logrus.Fields{
		"tool":     bin,
		"audio":    audioPath,
		"duration": time.Since(start),
	}).Debug("Audio extracted")

	return audioPath, nil
}

func (e *Extractor) args(videoPath, audioPath string) []string {
	return []string{
		"-i", videoPath,
		"-vn",
		"-acodec", e.codec,
		"-q:a", e.quality,
		audioPath,
		"-y",
	}
}
