package handler

import (
	"time"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

const birthDateLayout = "2006-01-02"

// toCreateInput maps a validated create request to the service input.
// The birth_date format was already checked by the validator.
func toCreateInput(req *createPatientRequest) ports.CreatePatientInput {
	birthDate, _ := time.Parse(birthDateLayout, req.BirthDate)
	return ports.CreatePatientInput{
		FullName:             req.FullName,
		BirthDate:            birthDate,
		Age:                  req.Age,
		Gender:               req.Gender,
		SexualOrientation:    req.SexualOrientation,
		DeficiencyCause:      req.DeficiencyCause,
		PhysicalCategory:     req.PhysicalCategory,
		PsychosocialCategory: req.PsychosocialCategory,
		LevelD1:              *req.LevelD1,
		LevelD2:              *req.LevelD2,
		LevelD3:              *req.LevelD3,
		LevelD4:              *req.LevelD4,
		LevelD5:              *req.LevelD5,
		LevelD6:              *req.LevelD6,
		LevelGlobal:          *req.LevelGlobal,
	}
}

// toPatch maps a partial update request to a repository patch, carrying only
// the fields that were present in the payload.
func toPatch(req *updatePatientRequest) ports.PatientPatch {
	patch := ports.PatientPatch{
		FullName:             req.FullName,
		Age:                  req.Age,
		Gender:               req.Gender,
		SexualOrientation:    req.SexualOrientation,
		DeficiencyCause:      req.DeficiencyCause,
		PhysicalCategory:     req.PhysicalCategory,
		PsychosocialCategory: req.PsychosocialCategory,
		LevelD1:              req.LevelD1,
		LevelD2:              req.LevelD2,
		LevelD3:              req.LevelD3,
		LevelD4:              req.LevelD4,
		LevelD5:              req.LevelD5,
		LevelD6:              req.LevelD6,
		LevelGlobal:          req.LevelGlobal,
	}
	if req.BirthDate != nil {
		birthDate, _ := time.Parse(birthDateLayout, *req.BirthDate)
		patch.BirthDate = &birthDate
	}
	return patch
}

func toPatientResponse(p *domain.Patient) patientResponse {
	return patientResponse{
		ID:                    p.ID,
		FullName:              p.FullName,
		BirthDate:             p.BirthDate.Format(birthDateLayout),
		Age:                   p.Age,
		Gender:                p.Gender,
		SexualOrientation:     p.SexualOrientation,
		DeficiencyCause:       p.DeficiencyCause,
		PhysicalCategory:      p.PhysicalCategory,
		PsychosocialCategory:  p.PsychosocialCategory,
		LevelD1:               p.LevelD1,
		LevelD2:               p.LevelD2,
		LevelD3:               p.LevelD3,
		LevelD4:               p.LevelD4,
		LevelD5:               p.LevelD5,
		LevelD6:               p.LevelD6,
		LevelGlobal:           p.LevelGlobal,
		PredictionProfile:     p.PredictionProfile,
		PredictionDescription: p.PredictionDescription,
		OwnerID:               p.OwnerID,
	}
}
