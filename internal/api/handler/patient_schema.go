package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// createPatientRequest carries every attribute of a new patient record.
// Enumerated fields are constrained to their closed value sets and numeric
// fields are bounded; birth_date is an ISO date (2006-01-02).
type createPatientRequest struct {
	FullName             string `json:"full_name"             validate:"required"`
	BirthDate            string `json:"birth_date"            validate:"required,datetime=2006-01-02"`
	Age                  int    `json:"age"                   validate:"required,gt=0"`
	Gender               string `json:"gender"                validate:"required,oneof=female male unspecified"`
	SexualOrientation    string `json:"sexual_orientation"    validate:"required,oneof=heterosexual homosexual bisexual unspecified"`
	DeficiencyCause      string `json:"deficiency_cause"      validate:"required,oneof=general_illness traffic_accident genetic_disorder birth_complication violence"`
	PhysicalCategory     string `json:"physical_category"     validate:"required,oneof=yes no"`
	PsychosocialCategory string `json:"psychosocial_category" validate:"required,oneof=yes no"`
	LevelD1              *int   `json:"level_d1"              validate:"required,gte=0,lte=100"`
	LevelD2              *int   `json:"level_d2"              validate:"required,gte=0,lte=100"`
	LevelD3              *int   `json:"level_d3"              validate:"required,gte=0,lte=100"`
	LevelD4              *int   `json:"level_d4"              validate:"required,gte=0,lte=100"`
	LevelD5              *int   `json:"level_d5"              validate:"required,gte=0,lte=100"`
	LevelD6              *int   `json:"level_d6"              validate:"required,gte=0,lte=100"`
	LevelGlobal          *int   `json:"level_global"          validate:"required,gte=0,lte=100"`
}

// updatePatientRequest is a partial update: absent fields keep their stored
// values. Owner and prediction fields have no request counterpart on purpose.
type updatePatientRequest struct {
	FullName             *string `json:"full_name"             validate:"omitempty"`
	BirthDate            *string `json:"birth_date"            validate:"omitempty,datetime=2006-01-02"`
	Age                  *int    `json:"age"                   validate:"omitempty,gt=0"`
	Gender               *string `json:"gender"                validate:"omitempty,oneof=female male unspecified"`
	SexualOrientation    *string `json:"sexual_orientation"    validate:"omitempty,oneof=heterosexual homosexual bisexual unspecified"`
	DeficiencyCause      *string `json:"deficiency_cause"      validate:"omitempty,oneof=general_illness traffic_accident genetic_disorder birth_complication violence"`
	PhysicalCategory     *string `json:"physical_category"     validate:"omitempty,oneof=yes no"`
	PsychosocialCategory *string `json:"psychosocial_category" validate:"omitempty,oneof=yes no"`
	LevelD1              *int    `json:"level_d1"              validate:"omitempty,gte=0,lte=100"`
	LevelD2              *int    `json:"level_d2"              validate:"omitempty,gte=0,lte=100"`
	LevelD3              *int    `json:"level_d3"              validate:"omitempty,gte=0,lte=100"`
	LevelD4              *int    `json:"level_d4"              validate:"omitempty,gte=0,lte=100"`
	LevelD5              *int    `json:"level_d5"              validate:"omitempty,gte=0,lte=100"`
	LevelD6              *int    `json:"level_d6"              validate:"omitempty,gte=0,lte=100"`
	LevelGlobal          *int    `json:"level_global"          validate:"omitempty,gte=0,lte=100"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes.

type patientResponse struct {
	ID                    string  `json:"id"`
	FullName              string  `json:"full_name"`
	BirthDate             string  `json:"birth_date"`
	Age                   int     `json:"age"`
	Gender                string  `json:"gender"`
	SexualOrientation     string  `json:"sexual_orientation"`
	DeficiencyCause       string  `json:"deficiency_cause"`
	PhysicalCategory      string  `json:"physical_category"`
	PsychosocialCategory  string  `json:"psychosocial_category"`
	LevelD1               int     `json:"level_d1"`
	LevelD2               int     `json:"level_d2"`
	LevelD3               int     `json:"level_d3"`
	LevelD4               int     `json:"level_d4"`
	LevelD5               int     `json:"level_d5"`
	LevelD6               int     `json:"level_d6"`
	LevelGlobal           int     `json:"level_global"`
	PredictionProfile     *int    `json:"prediction_profile"`
	PredictionDescription *string `json:"prediction_description"`
	OwnerID               string  `json:"owner_id"`
}

type predictionResponse struct {
	Profile     int    `json:"profile"`
	Description string `json:"description"`
}

type recomputeResponse struct {
	Enqueued int `json:"enqueued"`
}
