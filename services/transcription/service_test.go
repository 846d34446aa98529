package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/logger"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abc_clip.mp4_audio.mp3")
	if err := os.WriteFile(path, []byte("ID3 fake audio"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	var gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	client := NewWhisperClient(config.TranscriptionConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
		Timeout: 5 * time.Second,
	}, logger.Discard())

	text, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("expected whisper-1, got %q", gotModel)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
}

func TestTranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewWhisperClient(config.TranscriptionConfig{
		APIKey:  "bad",
		BaseURL: srv.URL + "/v1",
	}, logger.Discard())

	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if errors.KindOf(err) != errors.KindTranscription {
		t.Errorf("expected transcription error, got %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := NewWhisperClient(config.TranscriptionConfig{
		APIKey:  "key",
		BaseURL: "http://127.0.0.1:0/v1",
	}, logger.Discard())

	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if errors.KindOf(err) != errors.KindTranscription {
		t.Errorf("expected transcription error, got %v", err)
	}
}
