package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/nijaru/vidpost/errors"
	"github.com/nijaru/vidpost/models"
	"github.com/nijaru/vidpost/repository"
)

const (
	upsertRunQuery = `
        INSERT INTO runs (
            id, filename, status, stage, error,
            transcript_length, duration_ms, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            stage = excluded.stage,
            error = excluded.error,
            transcript_length = excluded.transcript_length,
            duration_ms = excluded.duration_ms,
            updated_at = excluded.updated_at
    `

	getRunQuery = `
        SELECT id, filename, status, stage, error,
               transcript_length, duration_ms, created_at, updated_at
        FROM runs WHERE id = ?
    `
)

const saveAttempts = 3

var _ repository.RunRepository = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, run *models.Run) error {
	const op = "SQLiteRepository.Save"

	var err error
	for i := 0; i < saveAttempts; i++ {
		if err = r.save(ctx, run); err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save run")
		}
		select {
		case <-ctx.Done():
			return errors.Internal(op, ctx.Err(), "Failed to save run")
		case <-time.After(time.Duration(i+1) * 100 * time.Millisecond):
		}
	}
	return errors.Internal(op, err, "Failed after retries")
}

func (r *Repository) save(ctx context.Context, run *models.Run) error {
	_, err := r.db.ExecContext(ctx, upsertRunQuery,
		run.ID,
		run.Filename,
		string(run.Status),
		string(run.Stage),
		run.Error,
		run.TranscriptLength,
		run.Duration.Milliseconds(),
		run.CreatedAt.UTC(),
		run.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Run, error) {
	const op = "SQLiteRepository.Find"

	run := &models.Run{}
	var status, stage string
	var durationMS int64

	err := r.db.QueryRowContext(ctx, getRunQuery, id).Scan(
		&run.ID,
		&run.Filename,
		&status,
		&stage,
		&run.Error,
		&run.TranscriptLength,
		&durationMS,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(op, nil, "Run not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query run")
	}

	run.Status = models.Status(status)
	run.Stage = models.Stage(stage)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}
