package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/okian/sitefn/internal/domain/model"
)

// MongoStore keeps counters as documents {_id: key, count: n}.
type MongoStore struct {
	coll *mongo.Collection
}

var _ Counter = (*MongoStore)(nil)

// NewMongoStore wraps coll.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Add runs FindOneAndUpdate with $inc and upsert, returning the document
// after the update.
func (s *MongoStore) Add(ctx context.Context, key string, delta int64) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(true)
	res := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{model.VisitorCountField: delta}},
		opts,
	)

	var doc bson.M
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("mongo FindOneAndUpdate %s: %w", key, err)
	}

	switch v := doc[model.VisitorCountField].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrMalformedRecord, model.VisitorCountField, v)
	}
}
