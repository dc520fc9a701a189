package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNoCollection = errors.New("mongo collection not initialised")

func (repo *MongoRepository[T]) ready() error {
	if repo.Model == nil {
		return ErrNoCollection
	}
	return nil
}

// CreateOne stamps the payload through ParseModel before inserting it.
func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	if err := repo.ready(); err != nil {
		return nil, err
	}
	parsed, ok := payload.ParseModel().(*T)
	if !ok {
		return nil, fmt.Errorf("mongo: ParseModel on %T must return a pointer to the same type", payload)
	}
	if _, err := repo.Model.InsertOne(ctx, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// FindOneByFilter returns nil, nil when no document matches.
func (repo *MongoRepository[T]) FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*options.FindOneOptions) (*T, error) {
	if err := repo.ready(); err != nil {
		return nil, err
	}
	var result T
	err := repo.Model.FindOne(ctx, filter, opts...).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// UpdatePartialByFilter sets the given fields on the first matching document
// and bumps updatedAt. It reports the number of matched documents.
func (repo *MongoRepository[T]) UpdatePartialByFilter(ctx context.Context, filter map[string]interface{}, payload map[string]interface{}) (int64, error) {
	if err := repo.ready(); err != nil {
		return 0, err
	}
	fields := bson.M{"updatedAt": time.Now()}
	for k, v := range payload {
		fields[k] = v
	}
	result, err := repo.Model.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}
