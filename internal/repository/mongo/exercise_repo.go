package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// FindAll lists catalog entries ordered by name, applying the same visibility
// rule as the relational store. Muscle groups are matched after the query.
func (r *mongoExerciseRepository) FindAll(ctx context.Context, f repository.ExerciseFilter) ([]domain.Exercise, error) {
	filter := bson.M{}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}

	switch {
	case f.Status != "":
		filter["status"] = f.Status
	case f.CallerID != "":
		filter["$or"] = bson.A{
			bson.M{"status": domain.ExerciseStatusApproved},
			bson.M{"status": domain.ExerciseStatusPending, "createdBy": f.CallerID},
		}
	default:
		filter["status"] = domain.ExerciseStatusApproved
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}

	return repository.MatchMuscleGroup(exercises, f.MuscleGroup), nil
}

// Create inserts a user-submitted exercise as pending.
func (r *mongoExerciseRepository) Create(ctx context.Context, userID string, input domain.ExerciseInput) (*domain.Exercise, error) {
	exercise := &domain.Exercise{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Category:     input.Category,
		MuscleGroups: input.MuscleGroups,
		Status:       domain.ExerciseStatusPending,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if exercise.MuscleGroups == nil {
		exercise.MuscleGroups = []string{}
	}
	if userID != "" {
		exercise.CreatedBy = &userID
	}

	if _, err := r.collection.InsertOne(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Approve marks the exercise approved whatever its current status.
func (r *mongoExerciseRepository) Approve(ctx context.Context, id, approverID string) (*domain.Exercise, error) {
	set := bson.M{
		"status":     domain.ExerciseStatusApproved,
		"approvedAt": time.Now().UTC(),
	}
	if approverID != "" {
		set["approvedBy"] = approverID
	}

	// A missing id matches nothing; the read below reports it.
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// SetMediaKey records the object key of the exercise's demonstration media.
func (r *mongoExerciseRepository) SetMediaKey(ctx context.Context, id, key string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"mediaKey": key}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// exerciseName returns the catalog name of id, or the Unknown Exercise sentinel.
func exerciseName(ctx context.Context, collection *mongo.Collection, id string) (string, error) {
	var doc struct {
		Name string `bson:"name"`
	}
	opts := options.FindOne().SetProjection(bson.M{"name": 1})
	err := collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.UnknownExerciseName, nil
	}
	if err != nil {
		return "", err
	}
	return doc.Name, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			// Default visibility: approved plus the caller's pending entries
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdBy", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
