package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutLogCollectionName = "workout_logs"

// mongoWorkoutLogRepository implements repository.WorkoutLogRepository
type mongoWorkoutLogRepository struct {
	collection *mongo.Collection
	scope      ownerScope
}

// NewMongoWorkoutLogRepository creates a new workout log repository.
func NewMongoWorkoutLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	collection := db.Collection(workoutLogCollectionName)
	return &mongoWorkoutLogRepository{
		collection: collection,
		scope:      newOwnerScope(collection),
	}
}

// Create inserts a new workout log. Sets defaults to 1, LoggedAt to now.
func (r *mongoWorkoutLogRepository) Create(ctx context.Context, userID string, input domain.WorkoutLogInput) (*domain.WorkoutLog, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	log := &domain.WorkoutLog{
		ID:         uuid.NewString(),
		UserID:     userID,
		ExerciseID: input.ExerciseID,
		Weight:     input.Weight,
		Reps:       input.Reps,
		Sets:       input.Sets,
		Notes:      input.Notes,
		LoggedAt:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if log.Sets <= 0 {
		log.Sets = 1
	}
	if input.LoggedAt != nil {
		log.LoggedAt = input.LoggedAt.UTC().Truncate(time.Millisecond)
	}

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// GetByID retrieves a single workout log by its ID, whoever owns it.
func (r *mongoWorkoutLogRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// FindAll lists userID's logs, newest first, and the total matching the filter.
func (r *mongoWorkoutLogRepository) FindAll(ctx context.Context, userID string, f repository.WorkoutLogFilter) ([]domain.WorkoutLog, int, error) {
	filter := bson.M{"userId": userID}
	if f.ExerciseID != "" {
		filter["exerciseId"] = f.ExerciseID
	}
	dateRange(filter, f.From, f.To)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sort := bson.D{{Key: "loggedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	cursor, err := r.collection.Find(ctx, filter, pageOptions(f.Limit, f.Offset, sort))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	logs := []domain.WorkoutLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, int(total), nil
}

// Update patches the supplied fields of a log owned by userID.
func (r *mongoWorkoutLogRepository) Update(ctx context.Context, id, userID string, patch domain.WorkoutLogPatch) (*domain.WorkoutLog, error) {
	var updated domain.WorkoutLog
	var err error
	if patch.Empty() {
		err = r.collection.FindOne(ctx, r.scope.filter(id, userID)).Decode(&updated)
	} else {
		set := bson.M{"updatedAt": time.Now().UTC()}
		if patch.Weight != nil {
			set["weight"] = *patch.Weight
		}
		if patch.Reps != nil {
			set["reps"] = *patch.Reps
		}
		if patch.Sets != nil {
			set["sets"] = *patch.Sets
		}
		if patch.Notes != nil {
			set["notes"] = *patch.Notes
		}
		if patch.LoggedAt != nil {
			set["loggedAt"] = patch.LoggedAt.UTC()
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.collection.FindOneAndUpdate(ctx, r.scope.filter(id, userID), bson.M{"$set": set}, opts).Decode(&updated)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes the log only if userID owns it.
func (r *mongoWorkoutLogRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	return r.scope.deleteOwned(ctx, id, userID)
}

func (r *mongoWorkoutLogRepository) Ownership(ctx context.Context, id, userID string) (repository.Ownership, error) {
	return r.scope.check(ctx, id, userID)
}

// EnsureWorkoutLogIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "loggedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
