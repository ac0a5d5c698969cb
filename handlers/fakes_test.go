package handlers

import (
	"context"
	"time"

	"github.com/stridekart/stridekart-backend-go/models"
	"github.com/stridekart/stridekart-backend-go/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores mirroring the Mongo implementations' semantics, so
// handler tests run without a database.

type fakeData struct {
	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart
	pending  map[primitive.ObjectID]*models.PendingOrder
	orders   []*models.Order
	users    map[primitive.ObjectID]*models.User
}

func newFakeData() *fakeData {
	return &fakeData{
		products: map[primitive.ObjectID]*models.Product{},
		carts:    map[primitive.ObjectID]*models.Cart{},
		pending:  map[primitive.ObjectID]*models.PendingOrder{},
		users:    map[primitive.ObjectID]*models.User{},
	}
}

func newFakeStore() (*store.Store, *fakeData) {
	d := newFakeData()
	return &store.Store{
		Products: &fakeProducts{d},
		Carts:    &fakeCarts{d},
		Orders:   &fakeOrders{d},
		Users:    &fakeUsers{d},
	}, d
}

func (d *fakeData) addProduct(name string, price float64, sizes ...string) *models.Product {
	p := &models.Product{
		ID:     primitive.NewObjectID(),
		Name:   name,
		Price:  price,
		Sizes:  sizes,
		Images: []string{"https://img.example/" + name + ".jpg"},
		Stock:  map[string]int{},
		Status: models.ProductStatusActive,
	}
	d.products[p.ID] = p
	return p
}

type fakeProducts struct{ d *fakeData }

func (f *fakeProducts) ByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.d.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) List(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.d.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	f.d.products[p.ID] = p
	return nil
}

type fakeCarts struct{ d *fakeData }

func (f *fakeCarts) cart(userID primitive.ObjectID) *models.Cart {
	c, ok := f.d.carts[userID]
	if !ok {
		c = &models.Cart{ID: primitive.NewObjectID(), UserID: userID}
		f.d.carts[userID] = c
	}
	return c
}

func (f *fakeCarts) Add(ctx context.Context, userID, productID primitive.ObjectID, qty int, size string) (*models.PopulatedCart, error) {
	if _, ok := f.d.products[productID]; !ok {
		return nil, store.ErrNotFound
	}
	c := f.cart(userID)
	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].Size == size {
			c.Items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, models.CartLine{ProductID: productID, Quantity: qty, Size: size})
	}
	return f.Get(ctx, userID)
}

func (f *fakeCarts) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int) (*models.PopulatedCart, error) {
	c, ok := f.d.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return f.Get(ctx, userID)
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCarts) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.PopulatedCart, error) {
	c, ok := f.d.carts[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	kept := c.Items[:0]
	removed := false
	for _, line := range c.Items {
		if line.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return nil, store.ErrNotFound
	}
	c.Items = kept
	return f.Get(ctx, userID)
}

func (f *fakeCarts) Get(_ context.Context, userID primitive.ObjectID) (*models.PopulatedCart, error) {
	populated := &models.PopulatedCart{Products: []models.PopulatedLine{}}
	c, ok := f.d.carts[userID]
	if !ok {
		return populated, nil
	}
	for _, line := range c.Items {
		p, ok := f.d.products[line.ProductID]
		if !ok {
			continue
		}
		populated.Products = append(populated.Products, models.PopulatedLine{
			Product:  *p,
			Quantity: line.Quantity,
			Size:     line.Size,
		})
	}
	populated.TotalPrice = populated.Subtotal()
	c.TotalPrice = populated.TotalPrice
	return populated, nil
}

type fakeOrders struct{ d *fakeData }

func (f *fakeOrders) SavePendingAddress(_ context.Context, userID primitive.ObjectID, addr models.Address) (*models.PendingOrder, error) {
	p, ok := f.d.pending[userID]
	if !ok || p.Status != models.PendingOrderStaged {
		p = &models.PendingOrder{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			Status:        models.PendingOrderStaged,
			PaymentMethod: models.PaymentMethodCOD,
			CreatedAt:     time.Now(),
		}
		f.d.pending[userID] = p
	}
	a := addr
	p.ShippingAddress = &a
	p.UpdatedAt = time.Now()
	return p, nil
}

func (f *fakeOrders) StagedPending(_ context.Context, userID primitive.ObjectID) (*models.PendingOrder, error) {
	p, ok := f.d.pending[userID]
	if !ok || p.Status != models.PendingOrderStaged || p.ShippingAddress == nil {
		return nil, store.ErrNoShippingAddress
	}
	return p, nil
}

func (f *fakeOrders) ConsumePending(_ context.Context, userID primitive.ObjectID) (*models.PendingOrder, error) {
	p, ok := f.d.pending[userID]
	if !ok || p.Status != models.PendingOrderStaged || p.ShippingAddress == nil {
		return nil, store.ErrCheckoutConflict
	}
	p.Status = models.PendingOrderConsumed
	return p, nil
}

func (f *fakeOrders) ReleasePending(_ context.Context, userID primitive.ObjectID) error {
	if p, ok := f.d.pending[userID]; ok && p.Status == models.PendingOrderConsumed {
		p.Status = models.PendingOrderStaged
	}
	return nil
}

func (f *fakeOrders) CommitOrder(_ context.Context, order *models.Order) error {
	f.d.orders = append(f.d.orders, order)
	if c, ok := f.d.carts[order.UserID]; ok {
		c.Items = nil
		c.TotalPrice = 0
	}
	return nil
}

func (f *fakeOrders) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.d.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) All(_ context.Context) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range f.d.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, orderID primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	for _, o := range f.d.orders {
		if o.ID == orderID {
			if !models.CanTransition(o.Status, status) {
				return nil, store.ErrInvalidTransition
			}
			o.Status = status
			o.UpdatedAt = time.Now()
			return o, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeUsers struct{ d *fakeData }

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.d.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	f.d.users[u.ID] = u
	return nil
}

func (f *fakeUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, name, phone string) error {
	u, ok := f.d.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Name = name
	u.PhoneNumber = phone
	return nil
}

func (f *fakeUsers) Addresses(_ context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	u, ok := f.d.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u.Addresses, nil
}

func (f *fakeUsers) AddAddress(_ context.Context, userID primitive.ObjectID, addr models.Address) (*models.Address, error) {
	u, ok := f.d.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	addr.ID = primitive.NewObjectID()
	if len(u.Addresses) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, addr)
	return &addr, nil
}

func (f *fakeUsers) UpdateAddress(_ context.Context, userID, addressID primitive.ObjectID, addr models.Address) (*models.Address, error) {
	u, ok := f.d.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	for i := range u.Addresses {
		if u.Addresses[i].ID == addressID {
			addr.ID = addressID
			u.Addresses[i] = addr
			return &addr, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) DeleteAddress(_ context.Context, userID, addressID primitive.ObjectID) error {
	u, ok := f.d.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	for i := range u.Addresses {
		if u.Addresses[i].ID == addressID {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
