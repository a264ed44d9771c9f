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

const sessionCollectionName = "workout_sessions"

// mongoSessionRepository stores each session as one document with its
// exercises, sets and supersets embedded, so every write is atomic.
type mongoSessionRepository struct {
	collection *mongo.Collection
	exercises  *mongo.Collection
	scope      ownerScope
}

// NewMongoSessionRepository creates a new session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	collection := db.Collection(sessionCollectionName)
	return &mongoSessionRepository{
		collection: collection,
		exercises:  db.Collection(exerciseCollectionName),
		scope:      newOwnerScope(collection),
	}
}

// Create builds the whole tree, inserts it as one document and reads it back.
func (r *mongoSessionRepository) Create(ctx context.Context, userID string, input domain.WorkoutSessionInput) (*domain.WorkoutSession, error) {
	now := time.Now().UTC()
	session := domain.WorkoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		LoggedAt:  input.LoggedAt.UTC(),
		Duration:  input.Duration,
		Notes:     input.Notes,
		Exercises: make([]domain.WorkoutExercise, 0, len(input.Exercises)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.LoggedAt.IsZero() {
		session.LoggedAt = now
	}

	for i, in := range input.Exercises {
		name, err := exerciseName(ctx, r.exercises, in.ExerciseID)
		if err != nil {
			return nil, err
		}
		we := domain.WorkoutExercise{
			ID:              uuid.NewString(),
			ExerciseID:      in.ExerciseID,
			ExerciseName:    name,
			Order:           i,
			Sets:            make([]domain.ExerciseSet, len(in.Sets)),
			MachineSettings: in.MachineSettings,
			Notes:           in.Notes,
		}
		for j, set := range in.Sets {
			set.SetNumber = j + 1
			we.Sets[j] = set
		}
		for j, set := range in.WarmupSets {
			set.SetNumber = j + 1
			we.WarmupSets = append(we.WarmupSets, set)
		}
		session.Exercises = append(session.Exercises, we)
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, session.ID, userID)
}

// GetByID returns the aggregate only when userID owns it.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id, userID string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	// Supersets are stored alongside; the session view does not carry them.
	opts := options.FindOne().SetProjection(bson.M{"supersets": 0})
	err := r.collection.FindOne(ctx, r.scope.filter(id, userID), opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindAll lists userID's sessions, newest first, and the total matching the filter.
func (r *mongoSessionRepository) FindAll(ctx context.Context, userID string, f repository.SessionFilter) ([]domain.WorkoutSession, int, error) {
	filter := bson.M{"userId": userID}
	dateRange(filter, f.From, f.To)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sort := bson.D{{Key: "loggedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	opts := pageOptions(f.Limit, f.Offset, sort).SetProjection(bson.M{"supersets": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, 0, err
	}
	return sessions, int(total), nil
}

// Update patches the supplied session fields. An empty patch is a plain read.
func (r *mongoSessionRepository) Update(ctx context.Context, id, userID string, patch domain.WorkoutSessionPatch) (*domain.WorkoutSession, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.LoggedAt != nil {
		set["loggedAt"] = patch.LoggedAt.UTC()
	}
	if patch.Duration != nil {
		set["duration"] = *patch.Duration
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}

	result, err := r.collection.UpdateOne(ctx, r.scope.filter(id, userID), bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id, userID)
}

// Delete removes the session document together with everything embedded in it.
func (r *mongoSessionRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	return r.scope.deleteOwned(ctx, id, userID)
}

func (r *mongoSessionRepository) Ownership(ctx context.Context, id, userID string) (repository.Ownership, error) {
	return r.scope.check(ctx, id, userID)
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "loggedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Superset lookups by id
			Keys:    bson.D{{Key: "supersets.id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
