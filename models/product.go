package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Images      []string           `bson:"images" json:"images"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Stock       map[string]int     `bson:"stock" json:"stock"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the product's primary image, or "" when none uploaded.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
