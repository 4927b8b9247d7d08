package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/saludtech/profiling-api/internal/api/metrics"
	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

// PredictionCache abstracts the model-output cache (Redis). A nil result with
// a nil error means cache miss.
type PredictionCache interface {
	Get(ctx context.Context, key string) (*domain.ProfileResult, error)
	Set(ctx context.Context, key string, res domain.ProfileResult) error
}

// PatientService implements caller-scoped CRUD and profile prediction over
// patient records. Ownership is enforced here, in one place, for get, update,
// delete, and predict.
type PatientService struct {
	repo      ports.PatientRepository
	predictor ports.ProfilePredictor
	cache     PredictionCache
	log       zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, predictor ports.ProfilePredictor, cache PredictionCache, log zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, predictor: predictor, cache: cache, log: log}
}

// authorize rejects callers that neither own the record nor hold the admin
// role. Owner is compared against the identity resolved from the live user
// store, not against token claims.
func authorize(p *domain.Patient, caller ports.Caller) error {
	if caller.IsAdmin() {
		return nil
	}
	if p.OwnerID != caller.ID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *PatientService) Create(ctx context.Context, in ports.CreatePatientInput, caller ports.Caller) (*domain.Patient, error) {
	now := time.Now().UTC()
	patient := &domain.Patient{
		FullName:             in.FullName,
		BirthDate:            in.BirthDate,
		Age:                  in.Age,
		Gender:               in.Gender,
		SexualOrientation:    in.SexualOrientation,
		DeficiencyCause:      in.DeficiencyCause,
		PhysicalCategory:     in.PhysicalCategory,
		PsychosocialCategory: in.PsychosocialCategory,
		LevelD1:              in.LevelD1,
		LevelD2:              in.LevelD2,
		LevelD3:              in.LevelD3,
		LevelD4:              in.LevelD4,
		LevelD5:              in.LevelD5,
		LevelD6:              in.LevelD6,
		LevelGlobal:          in.LevelGlobal,
		OwnerID:              caller.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := s.repo.Create(ctx, patient)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create patient")
		return nil, err
	}

	s.log.Info().Str("patient_id", created.ID).Str("owner_id", caller.ID).Msg("patient created")
	metrics.PatientsCreatedTotal.Inc()

	return created, nil
}

// List returns the caller's own records; admins see every record.
func (s *PatientService) List(ctx context.Context, caller ports.Caller, skip, limit int) ([]domain.Patient, error) {
	if limit <= 0 {
		limit = 100
	}
	if caller.IsAdmin() {
		return s.repo.ListAll(ctx, skip, limit)
	}
	return s.repo.ListByOwner(ctx, caller.ID, skip, limit)
}

func (s *PatientService) Get(ctx context.Context, id string, caller ports.Caller) (*domain.Patient, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(patient, caller); err != nil {
		return nil, err
	}
	return patient, nil
}

// Update merges only the provided fields. Owner and prediction fields are
// not reachable through this path.
func (s *PatientService) Update(ctx context.Context, id string, patch ports.PatientPatch, caller ports.Caller) (*domain.Patient, error) {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.log.Error().Err(err).Str("patient_id", id).Msg("failed to update patient")
		return nil, err
	}
	return updated, nil
}

func (s *PatientService) Delete(ctx context.Context, id string, caller ports.Caller) error {
	if _, err := s.Get(ctx, id, caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("patient_id", id).Msg("patient deleted")
	return nil
}

// Predict computes the patient's classification profile, persists it onto the
// record, and returns the (profile, description) pair. Nothing is persisted
// when the model call fails.
func (s *PatientService) Predict(ctx context.Context, id string, caller ports.Caller) (*domain.ProfileResult, error) {
	patient, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return s.predict(ctx, patient)
}

// RecomputeProfile re-scores a single record against the current model. Used
// by the recompute worker pool; no caller scoping applies.
func (s *PatientService) RecomputeProfile(ctx context.Context, id string) error {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.predict(ctx, patient)
	return err
}

func (s *PatientService) ListPredictedIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListIDsWithPrediction(ctx)
}

func (s *PatientService) predict(ctx context.Context, patient *domain.Patient) (*domain.ProfileResult, error) {
	input := patient.ModelInput()

	result, cached := s.cachedResult(ctx, input)
	if !cached {
		start := time.Now()
		var err error
		result, err = s.predictor.Predict(ctx, input)
		metrics.PredictionDuration.WithLabelValues(predictionOutcome(err)).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.PredictionsTotal.WithLabelValues(predictionOutcome(err)).Inc()
			s.log.Error().Err(err).Str("patient_id", patient.ID).Msg("profile prediction failed")
			return nil, err
		}
		metrics.PredictionsTotal.WithLabelValues("success").Inc()

		if err := s.cache.Set(ctx, cacheKey(input), *result); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache prediction result")
		}
	}

	if err := s.repo.SetPrediction(ctx, patient.ID, result.Profile, result.Description); err != nil {
		return nil, fmt.Errorf("persist prediction: %w", err)
	}

	s.log.Info().
		Str("patient_id", patient.ID).
		Int("profile", result.Profile).
		Msg("profile prediction stored")

	return result, nil
}

// cachedResult consults the prediction cache; errors are treated as misses.
func (s *PatientService) cachedResult(ctx context.Context, input domain.PredictionInput) (*domain.ProfileResult, bool) {
	res, err := s.cache.Get(ctx, cacheKey(input))
	if err != nil {
		s.log.Warn().Err(err).Msg("prediction cache lookup failed")
		metrics.PredictionCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	if res == nil {
		metrics.PredictionCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.PredictionCacheTotal.WithLabelValues("hit").Inc()
	return res, true
}

// cacheKey hashes the full model input so any attribute change invalidates
// the cached classification.
func cacheKey(input domain.PredictionInput) string {
	raw, _ := json.Marshal(input)
	sum := sha256.Sum256(raw)
	return "prediction:" + hex.EncodeToString(sum[:])
}

func predictionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrPredictionUnavailable):
		return "unavailable"
	default:
		return "failed"
	}
}
