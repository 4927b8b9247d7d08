package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

const collectionPatients = "patients"

type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

type mongoPatient struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	FullName             string             `bson:"full_name"`
	BirthDate            time.Time          `bson:"birth_date"`
	Age                  int                `bson:"age"`
	Gender               string             `bson:"gender"`
	SexualOrientation    string             `bson:"sexual_orientation"`
	DeficiencyCause      string             `bson:"deficiency_cause"`
	PhysicalCategory     string             `bson:"physical_category"`
	PsychosocialCategory string             `bson:"psychosocial_category"`
	LevelD1              int                `bson:"level_d1"`
	LevelD2              int                `bson:"level_d2"`
	LevelD3              int                `bson:"level_d3"`
	LevelD4              int                `bson:"level_d4"`
	LevelD5              int                `bson:"level_d5"`
	LevelD6              int                `bson:"level_d6"`
	LevelGlobal          int                `bson:"level_global"`

	PredictionProfile     *int    `bson:"prediction_profile,omitempty"`
	PredictionDescription *string `bson:"prediction_description,omitempty"`

	OwnerID   string `bson:"owner_id"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (mp *mongoPatient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:                    mp.ID.Hex(),
		FullName:              mp.FullName,
		BirthDate:             mp.BirthDate.UTC(),
		Age:                   mp.Age,
		Gender:                mp.Gender,
		SexualOrientation:     mp.SexualOrientation,
		DeficiencyCause:       mp.DeficiencyCause,
		PhysicalCategory:      mp.PhysicalCategory,
		PsychosocialCategory:  mp.PsychosocialCategory,
		LevelD1:               mp.LevelD1,
		LevelD2:               mp.LevelD2,
		LevelD3:               mp.LevelD3,
		LevelD4:               mp.LevelD4,
		LevelD5:               mp.LevelD5,
		LevelD6:               mp.LevelD6,
		LevelGlobal:           mp.LevelGlobal,
		PredictionProfile:     mp.PredictionProfile,
		PredictionDescription: mp.PredictionDescription,
		OwnerID:               mp.OwnerID,
		CreatedAt:             unixToTime(mp.CreatedAt),
		UpdatedAt:             unixToTime(mp.UpdatedAt),
	}
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPatient{
		FullName:             p.FullName,
		BirthDate:            p.BirthDate.UTC(),
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
		OwnerID:              p.OwnerID,
		CreatedAt:            p.CreatedAt.Unix(),
		UpdatedAt:            p.UpdatedAt.Unix(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPatient
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) ListByOwner(ctx context.Context, ownerID string, skip, limit int) ([]domain.Patient, error) {
	return r.list(ctx, bson.M{"owner_id": ownerID}, skip, limit)
}

func (r *PatientRepository) ListAll(ctx context.Context, skip, limit int) ([]domain.Patient, error) {
	return r.list(ctx, bson.M{}, skip, limit)
}

func (r *PatientRepository) list(ctx context.Context, filter bson.M, skip, limit int) ([]domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []domain.Patient
	for cur.Next(ctx) {
		var mp mongoPatient
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, *mp.toDomain())
	}
	return patients, cur.Err()
}

// Update applies a partial update: only non-nil patch fields are written.
// Owner and prediction fields are never touched by this path.
func (r *PatientRepository) Update(ctx context.Context, id string, patch ports.PatientPatch) (*domain.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPatientNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	setIfString := func(field string, v *string) {
		if v != nil {
			set[field] = *v
		}
	}
	setIfInt := func(field string, v *int) {
		if v != nil {
			set[field] = *v
		}
	}
	setIfString("full_name", patch.FullName)
	if patch.BirthDate != nil {
		set["birth_date"] = patch.BirthDate.UTC()
	}
	setIfInt("age", patch.Age)
	setIfString("gender", patch.Gender)
	setIfString("sexual_orientation", patch.SexualOrientation)
	setIfString("deficiency_cause", patch.DeficiencyCause)
	setIfString("physical_category", patch.PhysicalCategory)
	setIfString("psychosocial_category", patch.PsychosocialCategory)
	setIfInt("level_d1", patch.LevelD1)
	setIfInt("level_d2", patch.LevelD2)
	setIfInt("level_d3", patch.LevelD3)
	setIfInt("level_d4", patch.LevelD4)
	setIfInt("level_d5", patch.LevelD5)
	setIfInt("level_d6", patch.LevelD6)
	setIfInt("level_global", patch.LevelGlobal)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoPatient
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) SetPrediction(ctx context.Context, id string, profile int, description string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"prediction_profile":     profile,
		"prediction_description": description,
		"updated_at":             time.Now().UTC().Unix(),
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set prediction: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) ListIDsWithPrediction(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"prediction_profile": bson.M{"$ne": nil}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list predicted patients: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode patient id: %w", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	return ids, cur.Err()
}

// EnsureIndexes creates the owner index used by per-operator listing.
func (r *PatientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "prediction_profile", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
