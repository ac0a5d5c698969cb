package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one (product, size) entry in a user's cart. At most one line
// exists per (productId, size) pair; adding the same pair again increments
// the quantity.
//
// Size must be stored even when empty: the merge filter matches lines with
// {size: ""}, and a missing field would not match it.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Size      string             `bson:"size" json:"size,omitempty"`
}

type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Items      []CartLine         `bson:"items" json:"items"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedLine pairs a cart line with the live product it references.
type PopulatedLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
}

// PopulatedCart is the cart as served to clients: lines joined against the
// products collection, with the total recomputed from live prices.
type PopulatedCart struct {
	Products   []PopulatedLine `json:"products"`
	TotalPrice float64         `json:"totalPrice"`
}

// Subtotal computes the item subtotal from live product prices. This is the
// authoritative figure; client-submitted totals are advisory only.
func (c PopulatedCart) Subtotal() float64 {
	var total float64
	for _, line := range c.Products {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}
