package repositories

import (
	"context"
	"regexp"
	"strings"

	"github.com/Kariqs/bookbuy-api/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoAuthorRepository struct {
	coll *mongo.Collection
}

func (r *MongoAuthorRepository) Create(ctx context.Context, author *models.Author) error {
	res, err := r.coll.InsertOne(ctx, author)
	if err != nil {
		return translate(err)
	}
	author.ID = insertedID(res)
	return nil
}

func (r *MongoAuthorRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Author, error) {
	return findOne[models.Author](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoAuthorRepository) List(ctx context.Context, filter models.AuthorFilter) ([]models.Author, error) {
	return findAll[models.Author](ctx, r.coll, authorListFilter(filter),
		options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}))
}

func (r *MongoAuthorRepository) Replace(ctx context.Context, author *models.Author) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": author.ID}, author)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAuthorRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

// authorListFilter matches names exactly; they are stored lowercased.
func authorListFilter(filter models.AuthorFilter) bson.M {
	f := bson.M{}
	if filter.FirstName != "" {
		f["first_name"] = strings.ToLower(filter.FirstName)
	}
	if filter.LastName != "" {
		f["last_name"] = strings.ToLower(filter.LastName)
	}
	return f
}

type MongoBookRepository struct {
	coll *mongo.Collection
}

func (r *MongoBookRepository) Create(ctx context.Context, book *models.Book) error {
	res, err := r.coll.InsertOne(ctx, book)
	if err != nil {
		return translate(err)
	}
	book.ID = insertedID(res)
	return nil
}

func (r *MongoBookRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Book, error) {
	return findOne[models.Book](ctx, r.coll, bson.M{"_id": id})
}

func (r *MongoBookRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	return findAll[models.Book](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *MongoBookRepository) List(ctx context.Context) ([]models.Book, error) {
	return findAll[models.Book](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
}

// Search matches titles case-insensitively.
func (r *MongoBookRepository) Search(ctx context.Context, title string) ([]models.Book, error) {
	return findAll[models.Book](ctx, r.coll, bson.M{"title": bson.M{
		"$regex": bson.Regex{Pattern: regexp.QuoteMeta(title), Options: "i"},
	}})
}

func (r *MongoBookRepository) Replace(ctx context.Context, book *models.Book) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": book.ID}, book)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id bson.ObjectID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
