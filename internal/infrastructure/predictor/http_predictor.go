package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config points the client at the model-serving backend.
type Config struct {
	URL     string
	Timeout time.Duration
}

// HTTPPredictor invokes the externally trained classification model over
// HTTP. Every call is bounded by the configured timeout: an unreachable or
// timed-out backend maps to domain.ErrPredictionUnavailable, a backend that
// answers but fails to classify maps to domain.ErrPredictionFailed.
type HTTPPredictor struct {
	url    string
	client *http.Client
}

func NewHTTPPredictor(cfg Config) *HTTPPredictor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPPredictor{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, in domain.PredictionInput) (*domain.ProfileResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: encode input: %v", domain.ErrPredictionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrPredictionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: the backend is not
		// reachable, not malfunctioning.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPredictionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned status %d", domain.ErrPredictionFailed, resp.StatusCode)
	}

	var result domain.ProfileResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrPredictionFailed, err)
	}
	return &result, nil
}
