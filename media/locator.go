package media

import (
	"context"
	"errors"
	"fmt"
)

var ErrToolNotFound = errors.New("audio extraction tool not found")

// Locator finds the executable used for audio extraction.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// ProbeLocator tries each candidate in order by running it with -version.
// Bare command names are resolved through PATH by the runner.
type ProbeLocator struct {
	candidates []string
	runner     Runner
}

func NewProbeLocator(candidates []string, runner Runner) *ProbeLocator {
	return &ProbeLocator{candidates: candidates, runner: runner}
}

func (l *ProbeLocator) Locate(ctx context.Context) (string, error) {
	var lastErr error
	for _, candidate := range l.candidates {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := l.runner.Run(ctx, candidate, "-version"); err != nil {
			lastErr = err
			continue
		}
		return candidate, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w (tried %v): %v", ErrToolNotFound, l.candidates, lastErr)
	}
	return "", ErrToolNotFound
}

// StaticLocator always returns the same path.
type StaticLocator string

func (s StaticLocator) Locate(context.Context) (string, error) {
	if s == "" {
		return "", ErrToolNotFound
	}
	return string(s), nil
}
