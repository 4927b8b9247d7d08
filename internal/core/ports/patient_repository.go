package ports

import (
	"context"
	"time"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// PatientPatch carries a partial update. Nil fields are left untouched.
// Owner and prediction fields are intentionally absent: they are immutable
// through the update path.
type PatientPatch struct {
	FullName             *string
	BirthDate            *time.Time
	Age                  *int
	Gender               *string
	SexualOrientation    *string
	DeficiencyCause      *string
	PhysicalCategory     *string
	PsychosocialCategory *string
	LevelD1              *int
	LevelD2              *int
	LevelD3              *int
	LevelD4              *int
	LevelD5              *int
	LevelD6              *int
	LevelGlobal          *int
}

// PatientRepository defines the persistence contract for patient records.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]domain.Patient, error)
	ListAll(ctx context.Context, skip, limit int) ([]domain.Patient, error)
	Update(ctx context.Context, id string, patch PatientPatch) (*domain.Patient, error)
	// SetPrediction persists the computed classification onto the record.
	SetPrediction(ctx context.Context, id string, profile int, description string) error
	Delete(ctx context.Context, id string) error
	// ListIDsWithPrediction returns the ids of every patient that already has
	// a computed profile, for bulk recomputation.
	ListIDsWithPrediction(ctx context.Context) ([]string, error)
}
