package driven

import (
	"context"

	"github.com/custodia-labs/tunebridge/internal/core/domain"
)

// AttemptStore records the outcome of finished authorization attempts.
type AttemptStore interface {
	// Record stores one finished attempt.
	Record(ctx context.Context, attempt domain.AuthAttempt) error

	// List returns the most recent attempts, newest first.
	// A platform of "" matches every platform.
	List(ctx context.Context, platform domain.Platform, limit int) ([]domain.AuthAttempt, error)
}
