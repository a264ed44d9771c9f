package mongo

import (
	"context"
	"errors"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoSupersetRepository keeps supersets embedded in their session document.
type mongoSupersetRepository struct {
	sessions  *mongo.Collection
	exercises *mongo.Collection
}

// NewMongoSupersetRepository creates a new superset repository.
func NewMongoSupersetRepository(db *mongo.Database) repository.SupersetRepository {
	return &mongoSupersetRepository{
		sessions:  db.Collection(sessionCollectionName),
		exercises: db.Collection(exerciseCollectionName),
	}
}

// Create pushes the superset and its member exercises onto the session in one update.
func (r *mongoSupersetRepository) Create(ctx context.Context, sessionID string, input domain.SupersetInput) (*domain.Superset, error) {
	var current struct {
		Exercises []domain.WorkoutExercise `bson:"exercises"`
	}
	opts := options.FindOne().SetProjection(bson.M{"exercises.order": 1})
	err := r.sessions.FindOne(ctx, bson.M{"_id": sessionID}, opts).Decode(&current)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	next := 0
	for _, ex := range current.Exercises {
		if ex.Order >= next {
			next = ex.Order + 1
		}
	}

	superset := domain.Superset{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		ExerciseIDs: input.ExerciseIDs,
		Sets:        make([]domain.SupersetSet, len(input.Sets)),
		RestTime:    input.RestTime,
	}
	for i, set := range input.Sets {
		set.SetNumber = i + 1
		superset.Sets[i] = set
	}

	members := make([]domain.WorkoutExercise, 0, len(input.ExerciseIDs))
	for i, exerciseID := range input.ExerciseIDs {
		name, err := exerciseName(ctx, r.exercises, exerciseID)
		if err != nil {
			return nil, err
		}
		members = append(members, domain.WorkoutExercise{
			ID:           uuid.NewString(),
			ExerciseID:   exerciseID,
			ExerciseName: name,
			Order:        next + i,
			IsSuperset:   true,
			SupersetID:   &superset.ID,
			Sets:         []domain.ExerciseSet{},
		})
	}

	update := bson.M{"$push": bson.M{
		"supersets": superset,
		"exercises": bson.M{"$each": members},
	}}
	result, err := r.sessions.UpdateOne(ctx, bson.M{"_id": sessionID}, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		// Deleted since the lookup above.
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, superset.ID)
}

// GetByID finds the superset inside whichever session holds it.
func (r *mongoSupersetRepository) GetByID(ctx context.Context, id string) (*domain.Superset, error) {
	var doc struct {
		Supersets []domain.Superset `bson:"supersets"`
	}
	opts := options.FindOne().SetProjection(bson.M{"supersets.$": 1})
	err := r.sessions.FindOne(ctx, bson.M{"supersets.id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if len(doc.Supersets) == 0 {
		return nil, repository.ErrNotFound
	}
	return &doc.Supersets[0], nil
}
