package repository

import (
	"context"

	"github.com/nijaru/vidpost/models"
)

type RunRepository interface {
	Save(ctx context.Context, run *models.Run) error
	Find(ctx context.Context, id string) (*models.Run, error)
}
