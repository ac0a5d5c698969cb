package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddToCartMergesSameProductAndSize(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500, "M", "L")

	for _, qty := range []int{2, 3} {
		body := fmt.Sprintf(`{"productId":%q,"quantity":%d,"size":"M"}`, p.ID.Hex(), qty)
		c, rec := newTestContext(http.MethodPost, "/cart/addToCart", body, uid)
		require.NoError(t, h.AddToCart(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	cart := d.carts[uid]
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// A different size is a separate line.
	body := fmt.Sprintf(`{"productId":%q,"quantity":1,"size":"L"}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodPost, "/cart/addToCart", body, uid)
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, d.carts[uid].Items, 2)
}

func TestAddToCartMergesSizelessLines(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("mug", 250)

	// Products without sizes must merge the same way sized ones do.
	for _, qty := range []int{1, 4} {
		body := fmt.Sprintf(`{"productId":%q,"quantity":%d}`, p.ID.Hex(), qty)
		c, rec := newTestContext(http.MethodPost, "/cart/addToCart", body, uid)
		require.NoError(t, h.AddToCart(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	cart := d.carts[uid]
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 1250.0, cart.TotalPrice)
}

func TestAddToCartRecomputesTotalFromLivePrices(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500)

	body := fmt.Sprintf(`{"productId":%q,"quantity":2}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodPost, "/cart/addToCart", body, uid)
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1000.0, d.carts[uid].TotalPrice)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	s, _ := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()

	body := fmt.Sprintf(`{"productId":%q,"quantity":1}`, primitive.NewObjectID().Hex())
	c, rec := newTestContext(http.MethodPost, "/cart/addToCart", body, uid)
	require.NoError(t, h.AddToCart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateCartRejectsQuantityBelowOne(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500)
	_, err := s.Carts.Add(context.Background(), uid, p.ID, 2, "")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"productId":%q,"quantity":0}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodPut, "/cart/updateCart", body, uid)
	require.NoError(t, h.UpdateCart(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// State untouched.
	assert.Equal(t, 2, d.carts[uid].Items[0].Quantity)
}

func TestUpdateCartMissingLine(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500)

	body := fmt.Sprintf(`{"productId":%q,"quantity":3}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodPut, "/cart/updateCart", body, uid)
	require.NoError(t, h.UpdateCart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveFromCartPullsAllSizes(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500, "M", "L")
	other := d.addProduct("tee", 300)

	ctx := context.Background()
	_, err := s.Carts.Add(ctx, uid, p.ID, 1, "M")
	require.NoError(t, err)
	_, err = s.Carts.Add(ctx, uid, p.ID, 1, "L")
	require.NoError(t, err)
	_, err = s.Carts.Add(ctx, uid, other.ID, 1, "")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"productId":%q}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodDelete, "/cart/removeFromCart", body, uid)
	require.NoError(t, h.RemoveFromCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Both size lines of the product are gone; the other product stays.
	require.Len(t, d.carts[uid].Items, 1)
	assert.Equal(t, other.ID, d.carts[uid].Items[0].ProductID)
	assert.Equal(t, 300.0, d.carts[uid].TotalPrice)
}

func TestRemoveFromCartAbsentProduct(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500)
	absent := d.addProduct("tee", 300)
	_, err := s.Carts.Add(context.Background(), uid, p.ID, 1, "")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"productId":%q}`, absent.ID.Hex())
	c, rec := newTestContext(http.MethodDelete, "/cart/removeFromCart", body, uid)
	require.NoError(t, h.RemoveFromCart(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	// Cart untouched.
	assert.Len(t, d.carts[uid].Items, 1)
}

func TestUpdateCartTwoSizesTouchesFirstLineOnly(t *testing.T) {
	s, d := newFakeStore()
	h := New(s, nil)
	uid := primitive.NewObjectID()
	p := d.addProduct("sneaker", 500, "M", "L")

	ctx := context.Background()
	_, err := s.Carts.Add(ctx, uid, p.ID, 1, "M")
	require.NoError(t, err)
	_, err = s.Carts.Add(ctx, uid, p.ID, 2, "L")
	require.NoError(t, err)

	// updateCart takes no size; the first line for the product wins.
	body := fmt.Sprintf(`{"productId":%q,"quantity":5}`, p.ID.Hex())
	c, rec := newTestContext(http.MethodPut, "/cart/updateCart", body, uid)
	require.NoError(t, h.UpdateCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, d.carts[uid].Items, 2)
	assert.Equal(t, 5, d.carts[uid].Items[0].Quantity)
	assert.Equal(t, 2, d.carts[uid].Items[1].Quantity)
}
