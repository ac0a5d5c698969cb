package store

import (
	"context"
	"time"

	"github.com/stridekart/stridekart-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCarts struct {
	db *mongo.Database
}

func (s *mongoCarts) col() *mongo.Collection {
	return s.db.Collection("carts")
}

func (s *mongoCarts) Add(ctx context.Context, userID, productID primitive.ObjectID, qty int, size string) (*models.PopulatedCart, error) {
	// Product must exist before it can enter a cart.
	var product models.Product
	err := s.db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Merge into an existing (productId, size) line first. A single $inc
	// keeps concurrent adds from losing updates.
	res, err := s.col().UpdateOne(ctx,
		bson.M{
			"userId": userID,
			"items":  bson.M{"$elemMatch": bson.M{"productId": productID, "size": size}},
		},
		bson.M{
			"$inc": bson.M{"items.$.quantity": qty},
			"$set": bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return nil, err
	}

	if res.MatchedCount == 0 {
		// No matching line: append one, creating the cart lazily.
		_, err = s.col().UpdateOne(ctx,
			bson.M{"userId": userID},
			bson.M{
				"$push": bson.M{"items": models.CartLine{ProductID: productID, Quantity: qty, Size: size}},
				"$set":  bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{
					"userId":    userID,
					"createdAt": now,
				},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}
	}

	return s.recomputeTotal(ctx, userID)
}

func (s *mongoCarts) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.PopulatedCart, error) {
	res, err := s.col().UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{
			"$set": bson.M{
				"items.$.quantity": qty,
				"updatedAt":        time.Now(),
			},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.recomputeTotal(ctx, userID)
}

func (s *mongoCarts) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.PopulatedCart, error) {
	// Pulls every line for the product, across sizes. The filter requires a
	// matching line, so MatchedCount == 0 means the product is not in the
	// cart — the $set alone would always count as a modification.
	res, err := s.col().UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.recomputeTotal(ctx, userID)
}

func (s *mongoCarts) Get(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedCart, error) {
	populated, _, err := s.populate(ctx, userID)
	return populated, err
}

// populate joins cart lines against the products collection. Lines whose
// product has since been deleted are skipped.
func (s *mongoCarts) populate(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedCart, *models.Cart, error) {
	var cart models.Cart
	err := s.col().FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return &models.PopulatedCart{Products: []models.PopulatedLine{}}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ProductID)
	}

	byID := map[primitive.ObjectID]models.Product{}
	if len(ids) > 0 {
		cursor, err := s.db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, nil, err
		}
		defer cursor.Close(ctx)
		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			return nil, nil, err
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	populated := &models.PopulatedCart{Products: []models.PopulatedLine{}}
	for _, line := range cart.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			continue
		}
		populated.Products = append(populated.Products, models.PopulatedLine{
			Product:  product,
			Quantity: line.Quantity,
			Size:     line.Size,
		})
	}
	populated.TotalPrice = populated.Subtotal()
	return populated, &cart, nil
}

// recomputeTotal persists the authoritative total after a mutation.
func (s *mongoCarts) recomputeTotal(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedCart, error) {
	populated, cart, err := s.populate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return populated, nil
	}
	_, err = s.col().UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"totalPrice": populated.TotalPrice}},
	)
	if err != nil {
		return nil, err
	}
	return populated, nil
}
