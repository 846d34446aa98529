package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "data", "runs.db"), 1)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestSaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	run := &models.Run{
		ID:        "run-1",
		Filename:  "clip.mp4",
		Status:    models.StatusProcessing,
		Stage:     models.StageReceived,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	run.Status = models.StatusCompleted
	run.Stage = models.StageTranscribed
	run.TranscriptLength = 11
	run.Duration = 1500 * time.Millisecond
	run.UpdatedAt = created.Add(2 * time.Second)
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, err := repo.Find(ctx, "run-1")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !got.IsCompleted() || got.Stage != models.StageTranscribed {
		t.Errorf("unexpected state %s/%s", got.Status, got.Stage)
	}
	if got.TranscriptLength != 11 {
		t.Errorf("expected transcript length 11, got %d", got.TranscriptLength)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("expected duration 1.5s, got %v", got.Duration)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at changed: %v", got.CreatedAt)
	}
}

func TestFindMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Find(context.Background(), "nope")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
