package domain

import (
	"errors"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")
var ErrForbidden = errors.New("access forbidden")
var ErrPredictionUnavailable = errors.New("prediction service unavailable")
var ErrPredictionFailed = errors.New("prediction failed")

// Patient is the owned aggregate root. OwnerID is set at creation and never
// changes; only the owner (or an admin) may read or mutate the record.
type Patient struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	BirthDate            time.Time `json:"birth_date"`
	Age                  int       `json:"age"`
	Gender               string    `json:"gender"`
	SexualOrientation    string    `json:"sexual_orientation"`
	DeficiencyCause      string    `json:"deficiency_cause"`
	PhysicalCategory     string    `json:"physical_category"`
	PsychosocialCategory string    `json:"psychosocial_category"`
	LevelD1              int       `json:"level_d1"`
	LevelD2              int       `json:"level_d2"`
	LevelD3              int       `json:"level_d3"`
	LevelD4              int       `json:"level_d4"`
	LevelD5              int       `json:"level_d5"`
	LevelD6              int       `json:"level_d6"`
	LevelGlobal          int       `json:"level_global"`

	// Derived classification, nil until a prediction has been computed.
	PredictionProfile     *int    `json:"prediction_profile"`
	PredictionDescription *string `json:"prediction_description"`

	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PredictionInput is the fixed-shape record the classification model expects.
// Field names mirror the features the model was trained on.
type PredictionInput struct {
	Age                  int    `json:"age"`
	Gender               string `json:"gender"`
	SexualOrientation    string `json:"sexual_orientation"`
	DeficiencyCause      string `json:"deficiency_cause"`
	PhysicalCategory     string `json:"physical_category"`
	PsychosocialCategory string `json:"psychosocial_category"`
	LevelD1              int    `json:"level_d1"`
	LevelD2              int    `json:"level_d2"`
	LevelD3              int    `json:"level_d3"`
	LevelD4              int    `json:"level_d4"`
	LevelD5              int    `json:"level_d5"`
	LevelD6              int    `json:"level_d6"`
	LevelGlobal          int    `json:"level_global"`
}

// ModelInput builds the classification input from the patient's attributes.
func (p *Patient) ModelInput() PredictionInput {
	return PredictionInput{
		Age:                  p.Age,
		Gender:               p.Gender,
		SexualOrientation:    p.SexualOrientation,
		DeficiencyCause:      p.DeficiencyCause,
		PhysicalCategory:     p.PhysicalCategory,
		PsychosocialCategory: p.PsychosocialCategory,
		LevelD1:              p.LevelD1,
		LevelD2:              p.LevelD2,
		LevelD3:              p.LevelD3,
		LevelD4:              p.LevelD4,
		LevelD5:              p.LevelD5,
		LevelD6:              p.LevelD6,
		LevelGlobal:          p.LevelGlobal,
	}
}

// ProfileResult is the pair returned by the classification model.
type ProfileResult struct {
	Profile     int    `json:"profile"`
	Description string `json:"description"`
}
