// Package store holds the persistence layer for the storefront. Handlers
// depend on the interfaces here, never on Mongo directly, so tests can
// substitute in-memory fakes.
package store

import (
	"context"
	"errors"

	"github.com/stridekart/stridekart-backend-go/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound covers missing products, carts, cart lines, users and orders.
	ErrNotFound = errors.New("not found")
	// ErrCartEmpty is returned when checkout runs against an empty cart.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrNoShippingAddress is returned when no staged pending order with a
	// shipping address exists for the user.
	ErrNoShippingAddress = errors.New("no saved shipping address")
	// ErrCheckoutConflict signals that a concurrent checkout consumed the
	// pending order first.
	ErrCheckoutConflict = errors.New("checkout already in progress")
	// ErrInvalidTransition rejects illegal order status moves.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDuplicateEmail rejects registration with a taken email.
	ErrDuplicateEmail = errors.New("email already registered")
)

type ProductStore interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
}

type CartStore interface {
	// Add merges qty into an existing (productID, size) line or appends a
	// new one, then recomputes the cart total from live prices.
	Add(ctx context.Context, userID, productID primitive.ObjectID, qty int, size string) (*models.PopulatedCart, error)
	// UpdateQuantity sets the quantity on the line for productID.
	UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.PopulatedCart, error)
	// Remove pulls every line for productID, regardless of size.
	Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.PopulatedCart, error)
	// Get returns the cart joined against the products collection.
	Get(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedCart, error)
}

type OrderStore interface {
	// SavePendingAddress finds-or-creates the user's single staged pending
	// order and overwrites its shipping address.
	SavePendingAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (*models.PendingOrder, error)
	// StagedPending returns the user's staged pending order, ErrNoShippingAddress
	// if none exists or it lacks an address.
	StagedPending(ctx context.Context, userID primitive.ObjectID) (*models.PendingOrder, error)
	// ConsumePending atomically flips the staged pending order to consumed.
	// Exactly one concurrent caller wins; losers get ErrCheckoutConflict.
	ConsumePending(ctx context.Context, userID primitive.ObjectID) (*models.PendingOrder, error)
	// ReleasePending flips a consumed pending order back to staged after a
	// failed commit, so the shopper can retry.
	ReleasePending(ctx context.Context, userID primitive.ObjectID) error
	// CommitOrder inserts the finalized order and clears the user's cart as
	// one atomic unit.
	CommitOrder(ctx context.Context, order *models.Order) error
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	// UpdateStatus applies an admin status change, enforcing transition
	// legality. Only the status field is ever touched.
	UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, phone string) error
	Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID primitive.ObjectID, addr models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID primitive.ObjectID) error
}

// Store bundles the per-collection stores behind one constructor.
type Store struct {
	Products ProductStore
	Carts    CartStore
	Orders   OrderStore
	Users    UserStore
}
