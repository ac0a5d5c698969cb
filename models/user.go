package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Address struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName    string             `bson:"fullName" json:"fullName"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Line1       string             `bson:"line1" json:"line1"`
	Line2       string             `bson:"line2,omitempty" json:"line2,omitempty"`
	City        string             `bson:"city" json:"city"`
	State       string             `bson:"state" json:"state"`
	PostalCode  string             `bson:"postalCode" json:"postalCode"`
	Country     string             `bson:"country" json:"country"`
	IsDefault   bool               `bson:"isDefault" json:"isDefault"`
}

// MissingFields lists the required address fields that are empty.
func (a Address) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"phoneNumber", a.PhoneNumber},
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"postalCode", a.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	Role        string             `bson:"role" json:"role"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Addresses   []Address          `bson:"addresses" json:"addresses"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
