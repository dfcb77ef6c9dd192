package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection            = "users"
	activationTokensCollection = "activation_tokens"
	cartsCollection            = "carts"
	authorsCollection          = "authors"
	booksCollection            = "books"
)

// NewMongoStore builds every repository on top of db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:            &MongoUserRepository{coll: db.Collection(usersCollection)},
		ActivationTokens: &MongoActivationTokenRepository{coll: db.Collection(activationTokensCollection)},
		Carts:            &MongoCartRepository{coll: db.Collection(cartsCollection)},
		Authors:          &MongoAuthorRepository{coll: db.Collection(authorsCollection)},
		Books:            &MongoBookRepository{coll: db.Collection(booksCollection)},
	}
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexModels() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", name, err)
		}
	}
	return nil
}

func indexModels() map[string][]mongo.IndexModel {
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plain := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}
	return map[string][]mongo.IndexModel{
		usersCollection:            {unique("email")},
		activationTokensCollection: {unique("activation_token"), unique("user_id")},
		cartsCollection:            {unique("user_id")},
		booksCollection:            {plain("title"), plain("author_id")},
		authorsCollection:          {plain("first_name"), plain("last_name")},
	}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func findOneAndDelete[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var doc T
	if err := coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err)
	}
	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

func insertedID(res *mongo.InsertOneResult) bson.ObjectID {
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		return id
	}
	return bson.ObjectID{}
}

func requireMatch(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
