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

type mongoUsers struct {
	db *mongo.Database
}

func (s *mongoUsers) col() *mongo.Collection {
	return s.db.Collection("users")
}

func (s *mongoUsers) Create(ctx context.Context, u *models.User) error {
	if err := s.col().FindOne(ctx, bson.M{"email": u.Email}).Err(); err == nil {
		return ErrDuplicateEmail
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	if u.Addresses == nil {
		u.Addresses = []models.Address{}
	}
	_, err := s.col().InsertOne(ctx, u)
	return err
}

func (s *mongoUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string) error {
	res, err := s.col().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":        name,
			"phoneNumber": phone,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *mongoUsers) AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (*models.Address, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	addr.ID = primitive.NewObjectID()
	// The first saved address becomes the default automatically.
	if len(user.Addresses) == 0 {
		addr.IsDefault = true
	}

	if addr.IsDefault {
		if err := s.clearDefaults(ctx, userID); err != nil {
			return nil, err
		}
	}

	_, err = s.col().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"addresses": addr},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *mongoUsers) UpdateAddress(ctx context.Context, userID, addressID primitive.ObjectID, addr models.Address) (*models.Address, error) {
	if addr.IsDefault {
		if err := s.clearDefaults(ctx, userID); err != nil {
			return nil, err
		}
	}

	addr.ID = addressID
	res, err := s.col().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"addresses.$[elem]": addr,
			"updatedAt":         time.Now(),
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem._id": addressID}},
		}),
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return nil, ErrNotFound
	}
	return &addr, nil
}

func (s *mongoUsers) DeleteAddress(ctx context.Context, userID, addressID primitive.ObjectID) error {
	res, err := s.col().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"addresses": bson.M{"_id": addressID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) clearDefaults(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col().UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"addresses.$[].isDefault": false}},
	)
	return err
}
