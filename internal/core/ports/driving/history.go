package driving

import (
	"context"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// AttemptHistory lists finished authorization attempts.
type AttemptHistory interface {
	// List returns the most recent attempts, newest first.
	// A platform of "" matches every platform.
	List(ctx context.Context, platform domain.Platform, limit int) ([]domain.AuthAttempt, error)
}
