package store

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// NewMongo wires the Mongo-backed stores over one database handle.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Products: &mongoProducts{db: db},
		Carts:    &mongoCarts{db: db},
		Orders:   &mongoOrders{db: db},
		Users:    &mongoUsers{db: db},
	}
}
