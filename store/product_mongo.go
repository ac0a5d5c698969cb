package store

import (
	"context"
	"time"

	"github.com/stridekart/stridekart-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProducts struct {
	db *mongo.Database
}

func (s *mongoProducts) col() *mongo.Collection {
	return s.db.Collection("products")
}

func (s *mongoProducts) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *mongoProducts) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *mongoProducts) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.ProductStatusActive
	}
	_, err := s.col().InsertOne(ctx, p)
	return err
}
