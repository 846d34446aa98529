package formatting

import (
	"context"

	"github.com/nijaru/vidpost/models"
)

type Service interface {
	// Format rewrites transcript for a single platform.
	Format(ctx context.Context, transcript string, platform models.Platform) (string, error)
}
