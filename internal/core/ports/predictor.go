package ports

import (
	"context"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// ProfilePredictor abstracts the externally trained classification model.
// Implementations must map unreachable/timed-out backends to
// domain.ErrPredictionUnavailable and invocation failures to
// domain.ErrPredictionFailed.
type ProfilePredictor interface {
	Predict(ctx context.Context, in domain.PredictionInput) (*domain.ProfileResult, error)
}
