package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// maxStderr bounds how much of a failed command's stderr is kept; ffmpeg is chatty.
const maxStderr = 2048

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type CommandError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command %q failed: %v (stderr: %s)", e.Name, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command %q failed: %v", e.Name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type ExecRunner struct {
	logger *logrus.Logger
}

func NewExecRunner(logger *logrus.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logger := r.logger.WithFields(logrus.Fields{
		"command": name,
		"args":    args,
	})
	logger.Debug("Executing command")

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		tail := lastBytes(strings.TrimSpace(stderr.String()), maxStderr)
		logger.WithFields(logrus.Fields{
			"error":    err,
			"stderr":   tail,
			"duration": time.Since(start),
		}).Debug("Command failed")
		return nil, &CommandError{Name: name, Stderr: tail, Err: err}
	}

	logger.WithField("duration", time.Since(start)).Debug("Command finished")
	return stdout.Bytes(), nil
}

func lastBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
