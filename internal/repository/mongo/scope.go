package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ownerScope is the id+owner filter shared by the user-owned collections.
type ownerScope struct {
	collection *mongo.Collection
	ownerField string
}

func newOwnerScope(collection *mongo.Collection) ownerScope {
	return ownerScope{collection: collection, ownerField: "userId"}
}

// filter matches one document owned by ownerID.
func (s ownerScope) filter(id, ownerID string) bson.M {
	return bson.M{"_id": id, s.ownerField: ownerID}
}

// check tells apart a missing document from one owned by somebody else.
func (s ownerScope) check(ctx context.Context, id, ownerID string) (repository.Ownership, error) {
	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{s.ownerField: 1})
	err := s.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.OwnershipMissing, nil
		}
		return repository.OwnershipMissing, err
	}
	if owner, _ := doc[s.ownerField].(string); owner != ownerID {
		return repository.OwnershipNotOwned, nil
	}
	return repository.OwnershipOwned, nil
}

// deleteOwned removes the document only if ownerID owns it.
func (s ownerScope) deleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, s.filter(id, ownerID))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// pageOptions applies the shared page size rules to a find.
func pageOptions(limit, offset int, sort bson.D) *options.FindOptions {
	if offset < 0 {
		offset = 0
	}
	return options.Find().
		SetSort(sort).
		SetLimit(int64(repository.ClampLimit(limit))).
		SetSkip(int64(offset))
}

// dateRange adds an inclusive loggedAt range to filter.
func dateRange(filter bson.M, from, to *time.Time) {
	if from == nil && to == nil {
		return
	}
	r := bson.M{}
	if from != nil {
		r["$gte"] = from.UTC()
	}
	if to != nil {
		r["$lte"] = to.UTC()
	}
	filter["loggedAt"] = r
}
