package formatting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nijaru/vidpost/config"
)

const defaultMaxTokens = 2000

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClaudeGenerator calls the Anthropic Messages API.
type ClaudeGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClaudeGenerator builds a generator without a deadline of its own;
// cfg.Timeout is applied by NewService.
func NewClaudeGenerator(cfg config.GenerationConfig) *ClaudeGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &ClaudeGenerator{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: maxTokens,
	}
}

// Generate returns the first text block of the response.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	for _, block := range msg.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("response %s contained no text (stop reason %q)", msg.ID, msg.StopReason)
}

// timeoutGenerator bounds each call; used for generators without their own deadline.
type timeoutGenerator struct {
	Generator
	timeout time.Duration
}

func (t timeoutGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Generator.Generate(ctx, prompt)
}
