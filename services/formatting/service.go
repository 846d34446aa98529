package formatting

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/models"
)

type service struct {
	generator Generator
	logger    *logrus.Logger
}

// NewService wraps generator. A positive timeout bounds every call.
func NewService(generator Generator, timeout time.Duration, logger *logrus.Logger) Service {
	if timeout > 0 {
		generator = timeoutGenerator{Generator: generator, timeout: timeout}
	}
	return &service{
		generator: generator,
		logger:    logger,
	}
}

func (s *service) Format(ctx context.Context, transcript string, platform models.Platform) (string, error) {
	const op = "FormattingService.Format"

	prompt, err := Prompt(platform, transcript)
	if err != nil {
		return "", errors.InvalidInput(op, err, "Unknown platform: "+string(platform))
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", errors.Generation(op, err, "Failed to format transcript for "+string(platform))
	}

	s.logger.WithFields(logrus.Fields{
		"platform": platform,
		"chars":    len(text),
		"duration": time.Since(start),
	}).Debug("Transcript formatted")

	return text, nil
}
