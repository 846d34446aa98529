package formatting

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/logger"
	"github.com/nijaru/vidpost/models"
)

func fakeAnthropic(t *testing.T, status int, reply func(prompt string) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
			return
		}

		prompt := ""
		if len(body.Messages) > 0 && len(body.Messages[0].Content) > 0 {
			prompt = body.Messages[0].Content[0].Text
		}
		resp := map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         body.Model,
			"content":       []map[string]any{{"type": "text", "text": reply(prompt)}},
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(url string) *ClaudeGenerator {
	return NewClaudeGenerator(config.GenerationConfig{
		APIKey:    "test-key",
		Model:     "claude-test",
		BaseURL:   url,
		MaxTokens: 2000,
		Timeout:   5 * time.Second,
	})
}

func TestPromptEmbedsTranscript(t *testing.T) {
	for _, p := range models.AllPlatforms() {
		prompt, err := Prompt(p, "the quick brown fox")
		if err != nil {
			t.Fatalf("Prompt(%s) error = %v", p, err)
		}
		if !strings.Contains(prompt, "Transcript: the quick brown fox") {
			t.Errorf("Prompt(%s) does not embed transcript", p)
		}
		if !strings.Contains(prompt, "plain text only") {
			t.Errorf("Prompt(%s) is missing the plain text rule", p)
		}
		if strings.Contains(prompt, transcriptPlaceholder) {
			t.Errorf("Prompt(%s) still contains placeholder", p)
		}
	}
}

func TestPromptUnknownPlatform(t *testing.T) {
	_, err := Prompt(models.Platform("myspace"), "hi")
	if !stderrors.Is(err, models.ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestPromptKeepsTemplateMarkersInTranscript(t *testing.T) {
	prompt, err := Prompt(models.PlatformBlog, "say {{transcript}} twice")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(prompt, "Transcript: say {{transcript}} twice") {
		t.Errorf("transcript was altered: %q", prompt[len(prompt)-40:])
	}
}

func TestFormatEachPlatform(t *testing.T) {
	srv := fakeAnthropic(t, http.StatusOK, func(prompt string) string {
		switch {
		case strings.Contains(prompt, "LinkedIn"):
			return "linkedin post"
		case strings.Contains(prompt, "Twitter"):
			return "1/ tweet"
		default:
			return "blog post"
		}
	})

	svc := NewService(newTestGenerator(srv.URL), 0, logger.Discard())

	want := map[models.Platform]string{
		models.PlatformLinkedIn: "linkedin post",
		models.PlatformTwitter:  "1/ tweet",
		models.PlatformBlog:     "blog post",
	}
	for platform, expected := range want {
		got, err := svc.Format(context.Background(), "hi", platform)
		if err != nil {
			t.Fatalf("Format(%s) error = %v", platform, err)
		}
		if got != expected {
			t.Errorf("Format(%s) = %q, want %q", platform, got, expected)
		}
	}
}

func TestFormatUnknownPlatform(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, 0, logger.Discard())

	_, err := svc.Format(context.Background(), "hi", models.Platform("myspace"))
	if errors.KindOf(err) != errors.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
	if !stderrors.Is(err, models.ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform in chain, got %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator should not be called, got %d calls", gen.calls)
	}
}

func TestFormatServiceError(t *testing.T) {
	srv := fakeAnthropic(t, http.StatusServiceUnavailable, nil)
	svc := NewService(newTestGenerator(srv.URL), 0, logger.Discard())

	_, err := svc.Format(context.Background(), "hi", models.PlatformTwitter)
	if errors.KindOf(err) != errors.KindGeneration {
		t.Errorf("expected generation error, got %v", err)
	}
}

func TestGenerateEmptyContent(t *testing.T) {
	srv := fakeAnthropic(t, http.StatusOK, func(string) string { return "  " })

	_, err := newTestGenerator(srv.URL).Generate(context.Background(), "hi")
	if err == nil {
		t.Error("expected error for blank response")
	}
}

type stubGenerator struct {
	calls int
	delay time.Duration
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
		return fmt.Sprintf("generated %d", len(prompt)), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestFormatTimeout(t *testing.T) {
	svc := NewService(&stubGenerator{delay: time.Second}, 20*time.Millisecond, logger.Discard())

	_, err := svc.Format(context.Background(), "hi", models.PlatformLinkedIn)
	if errors.KindOf(err) != errors.KindGeneration {
		t.Fatalf("expected generation error, got %v", err)
	}
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestGeneratorLeavesDeadlineToService(t *testing.T) {
	api := fakeAnthropic(t, http.StatusOK, func(string) string { return "ok" })
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		api.Config.Handler.ServeHTTP(w, r)
	}))
	t.Cleanup(slow.Close)

	generator := NewClaudeGenerator(config.GenerationConfig{
		APIKey:  "test-key",
		Model:   "claude-test",
		BaseURL: slow.URL,
		Timeout: 20 * time.Millisecond,
	})

	if _, err := generator.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("generator should not apply cfg.Timeout itself, got %v", err)
	}

	svc := NewService(generator, 20*time.Millisecond, logger.Discard())
	_, err := svc.Format(context.Background(), "hi", models.PlatformBlog)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected the service deadline to apply, got %v", err)
	}
}
