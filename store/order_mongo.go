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

type mongoOrders struct {
	db *mongo.Database
}

func (s *mongoOrders) col() *mongo.Collection {
	return s.db.Collection("orders")
}

func (s *mongoOrders) pendingCol() *mongo.Collection {
	return s.db.Collection("pending_orders")
}

func (s *mongoOrders) SavePendingAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (*models.PendingOrder, error) {
	now := time.Now()
	// Upsert keyed on (userId, status=pending): repeated saves overwrite the
	// same staged record, never create a second one.
	res := s.pendingCol().FindOneAndUpdate(ctx,
		bson.M{"userId": userID, "status": models.PendingOrderStaged},
		bson.M{
			"$set": bson.M{
				"shippingAddress": addr,
				"updatedAt":       now,
			},
			"$setOnInsert": bson.M{
				"userId":        userID,
				"status":        models.PendingOrderStaged,
				"paymentMethod": models.PaymentMethodCOD,
				"totalPrice":    0,
				"createdAt":     now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if res.Err() != nil {
		return nil, res.Err()
	}
	var pending models.PendingOrder
	if err := res.Decode(&pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *mongoOrders) StagedPending(ctx context.Context, userID primitive.ObjectID) (*models.PendingOrder, error) {
	var pending models.PendingOrder
	err := s.pendingCol().FindOne(ctx,
		bson.M{"userId": userID, "status": models.PendingOrderStaged},
	).Decode(&pending)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoShippingAddress
	}
	if err != nil {
		return nil, err
	}
	if pending.ShippingAddress == nil {
		return nil, ErrNoShippingAddress
	}
	return &pending, nil
}

func (s *mongoOrders) ConsumePending(ctx context.Context, userID primitive.ObjectID) (*models.PendingOrder, error) {
	// Single findAndModify transition staged -> consumed. Under two
	// concurrent checkouts exactly one caller matches the filter.
	res := s.pendingCol().FindOneAndUpdate(ctx,
		bson.M{
			"userId":          userID,
			"status":          models.PendingOrderStaged,
			"shippingAddress": bson.M{"$exists": true},
		},
		bson.M{"$set": bson.M{
			"status":    models.PendingOrderConsumed,
			"updatedAt": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if res.Err() == mongo.ErrNoDocuments {
		return nil, ErrCheckoutConflict
	}
	if res.Err() != nil {
		return nil, res.Err()
	}
	var pending models.PendingOrder
	if err := res.Decode(&pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *mongoOrders) ReleasePending(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.pendingCol().UpdateOne(ctx,
		bson.M{"userId": userID, "status": models.PendingOrderConsumed},
		bson.M{"$set": bson.M{
			"status":    models.PendingOrderStaged,
			"updatedAt": time.Now(),
		}},
	)
	return err
}

// CommitOrder inserts the finalized order and empties the cart inside one
// transaction, so a crash cannot leave both the order and a populated cart.
// Requires MongoDB running as a replica set.
func (s *mongoOrders) CommitOrder(ctx context.Context, order *models.Order) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.col().InsertOne(sc, order); err != nil {
			return nil, err
		}
		_, err := s.db.Collection("carts").UpdateOne(sc,
			bson.M{"userId": order.UserID},
			bson.M{"$set": bson.M{
				"items":      []models.CartLine{},
				"totalPrice": 0,
				"updatedAt":  time.Now(),
			}},
		)
		return nil, err
	})
	return err
}

func (s *mongoOrders) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *mongoOrders) All(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *mongoOrders) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.col().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *mongoOrders) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := s.col().FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, status) {
		return nil, ErrInvalidTransition
	}

	// Filter on the old status so a racing admin update cannot skip a step.
	res := s.col().FindOneAndUpdate(ctx,
		bson.M{"_id": orderID, "status": order.Status},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if res.Err() == mongo.ErrNoDocuments {
		return nil, ErrInvalidTransition
	}
	if res.Err() != nil {
		return nil, res.Err()
	}
	var updated models.Order
	if err := res.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
