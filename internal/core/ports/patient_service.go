package ports

import (
	"context"
	"time"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// Caller is the identity resolved by the auth middleware for the current
// request. Ownership checks compare Caller.ID against Patient.OwnerID.
type Caller struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// CreatePatientInput carries all data needed to create a patient record.
// Attribute constraints (bounded numerics, closed value sets) are enforced
// at the transport layer before this input is built.
type CreatePatientInput struct {
	FullName             string
	BirthDate            time.Time
	Age                  int
	Gender               string
	SexualOrientation    string
	DeficiencyCause      string
	PhysicalCategory     string
	PsychosocialCategory string
	LevelD1              int
	LevelD2              int
	LevelD3              int
	LevelD4              int
	LevelD5              int
	LevelD6              int
	LevelGlobal          int
}

// PatientService defines the caller-scoped use-cases over patient records.
// Every method that takes a Caller enforces ownership: non-admin callers only
// reach records they own.
type PatientService interface {
	Create(ctx context.Context, in CreatePatientInput, caller Caller) (*domain.Patient, error)
	List(ctx context.Context, caller Caller, skip, limit int) ([]domain.Patient, error)
	Get(ctx context.Context, id string, caller Caller) (*domain.Patient, error)
	Update(ctx context.Context, id string, patch PatientPatch, caller Caller) (*domain.Patient, error)
	Delete(ctx context.Context, id string, caller Caller) error
	Predict(ctx context.Context, id string, caller Caller) (*domain.ProfileResult, error)

	// RecomputeProfile re-scores a single record against the current model.
	// It is invoked by the recompute worker pool, not by request handlers,
	// and therefore carries no caller.
	RecomputeProfile(ctx context.Context, id string) error
	// ListPredictedIDs returns ids of records eligible for recomputation.
	ListPredictedIDs(ctx context.Context) ([]string, error)
}
