package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/bookbuy-api/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// maxAddAttempts bounds the increment/push loop in AddItem. Each retry means a
// concurrent writer created the item between our two updates.
const maxAddAttempts = 5

type MongoCartRepository struct {
	coll *mongo.Collection
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	return findOne[models.Cart](ctx, r.coll, bson.M{"user_id": userID})
}

func (r *MongoCartRepository) Create(ctx context.Context, userID bson.ObjectID) (*models.Cart, bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		createCartUpdate(utcNow()),
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, translate(err)
	}
	created := err == nil && res.UpsertedCount > 0
	cart, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return cart, created, nil
}

// AddItem first tries to bump an existing item in place, provided the result
// stays within the quantity cap. When the cart has no such item it pushes one,
// upserting the cart. The push is guarded so it can never duplicate a book; if
// the guard fails the upsert collides on the unique user_id index. That means
// either another request pushed the same book in between, and the next
// increment will match, or the item is already at the cap.
func (r *MongoCartRepository) AddItem(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	if err := models.CheckQuantity(quantity); err != nil {
		return err
	}
	itemPresent := false
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		ts := utcNow()
		res, err := r.coll.UpdateOne(ctx, cappedItemFilter(userID, bookID, quantity), incrementItemUpdate(quantity, ts))
		if err != nil {
			return translate(err)
		}
		if res.MatchedCount > 0 {
			return nil
		}
		if itemPresent {
			return models.ErrQuantityLimit
		}

		_, err = r.coll.UpdateOne(ctx,
			absentItemFilter(userID, bookID),
			pushItemUpdate(bookID, quantity, ts),
			options.UpdateOne().SetUpsert(true),
		)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return translate(err)
		}
		n, err := r.coll.CountDocuments(ctx, itemFilter(userID, bookID))
		if err != nil {
			return translate(err)
		}
		itemPresent = n > 0
	}
	return fmt.Errorf("adding book %s to cart: too much contention", bookID.Hex())
}

func (r *MongoCartRepository) RemoveItem(ctx context.Context, userID, bookID bson.ObjectID) error {
	return requireMatch(r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, pullItemUpdate(bookID, utcNow())))
}

func (r *MongoCartRepository) SetItemQuantity(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	if err := models.CheckQuantity(quantity); err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, itemFilter(userID, bookID), setItemQuantityUpdate(quantity, utcNow()))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return models.ErrCartItemNotFound
}

func (r *MongoCartRepository) Delete(ctx context.Context, userID bson.ObjectID) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	return translate(err)
}

func itemFilter(userID, bookID bson.ObjectID) bson.M {
	return bson.M{"user_id": userID, "cart_items.book_id": bookID}
}

// cappedItemFilter matches the cart only while the item can take quantity more
// without passing models.MaxItemQuantity. The positional operator then targets
// the element matched by $elemMatch.
func cappedItemFilter(userID, bookID bson.ObjectID, quantity int64) bson.M {
	return bson.M{
		"user_id": userID,
		"cart_items": bson.M{"$elemMatch": bson.M{
			"book_id":  bookID,
			"quantity": bson.M{"$lte": models.MaxItemQuantity - quantity},
		}},
	}
}

// absentItemFilter only uses equality on user_id so that an upsert copies
// nothing but user_id into the new document.
func absentItemFilter(userID, bookID bson.ObjectID) bson.M {
	return bson.M{"user_id": userID, "cart_items.book_id": bson.M{"$ne": bookID}}
}

func createCartUpdate(now time.Time) bson.M {
	return bson.M{"$setOnInsert": bson.M{
		"cart_items": bson.A{},
		"created_at": now,
		"updated_at": now,
	}}
}

func incrementItemUpdate(quantity int64, now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"cart_items.$.quantity": quantity},
		"$set": bson.M{"updated_at": now},
	}
}

func pushItemUpdate(bookID bson.ObjectID, quantity int64, now time.Time) bson.M {
	return bson.M{
		"$push":        bson.M{"cart_items": models.CartItem{BookID: bookID, Quantity: quantity}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
}

func pullItemUpdate(bookID bson.ObjectID, now time.Time) bson.M {
	return bson.M{
		"$pull": bson.M{"cart_items": bson.M{"book_id": bookID}},
		"$set":  bson.M{"updated_at": now},
	}
}

func setItemQuantityUpdate(quantity int64, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"cart_items.$.quantity": quantity,
		"updated_at":            now,
	}}
}
