package transcription

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
)

var _ Service = (*WhisperClient)(nil)

// WhisperClient sends audio to the OpenAI transcription endpoint.
type WhisperClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logrus.Logger
}

func NewWhisperClient(cfg config.TranscriptionConfig, logger *logrus.Logger) *WhisperClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &WhisperClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	const op = "WhisperClient.Transcribe"

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", errors.Transcription(op, err, "Transcription failed")
	}

	w.logger.WithFields(logrus.Fields{
		"model":    w.model,
		"chars":    len(resp.Text),
		"duration": time.Since(start),
	}).Debug("Audio transcribed")

	return resp.Text, nil
}
