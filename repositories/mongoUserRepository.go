package repositories

import (
	"context"
	"time"

	"github.com/Kariqs/bookbuy-api/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return translate(err)
	}
	user.ID = insertedID(res)
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": email})
}

func (r *MongoUserRepository) SetActive(ctx context.Context, id bson.ObjectID) error {
	return requireMatch(r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": true}}))
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id bson.ObjectID, hashedPassword string) error {
	return requireMatch(r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"hashed_password": hashedPassword}}))
}

type MongoActivationTokenRepository struct {
	coll *mongo.Collection
}

func (r *MongoActivationTokenRepository) Create(ctx context.Context, token *models.ActivationToken) error {
	res, err := r.coll.InsertOne(ctx, token)
	if err != nil {
		return translate(err)
	}
	token.ID = insertedID(res)
	return nil
}

func (r *MongoActivationTokenRepository) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.ActivationToken, error) {
	return findOne[models.ActivationToken](ctx, r.coll, bson.M{"user_id": userID})
}

func (r *MongoActivationTokenRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return translate(err)
}

func (r *MongoActivationTokenRepository) ConsumeValid(ctx context.Context, token string, now time.Time) (*models.ActivationToken, error) {
	return findOneAndDelete[models.ActivationToken](ctx, r.coll, validTokenFilter(token, now))
}

func (r *MongoActivationTokenRepository) DeleteByToken(ctx context.Context, token string) (*models.ActivationToken, error) {
	return findOneAndDelete[models.ActivationToken](ctx, r.coll, bson.M{"activation_token": token})
}

func validTokenFilter(token string, now time.Time) bson.M {
	return bson.M{
		"activation_token": token,
		"expires_at":       bson.M{"$gte": now},
	}
}
