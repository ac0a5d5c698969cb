package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddToCart merges the requested (product, size) into the user's cart,
// creating the cart on first use. The stored total is recomputed from live
// product prices, never taken from the client.
func (h *Handler) AddToCart(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
	}

	cart, err := h.Store.Carts.Add(c.Request().Context(), uid, productID, req.Quantity, req.Size)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"cart": cart})
}

// GetCart returns the cart with product details populated.
func (h *Handler) GetCart(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	cart, err := h.Store.Carts.Get(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"cart": cart})
}

// UpdateCart sets a new quantity on an existing cart line.
func (h *Handler) UpdateCart(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
	}

	cart, err := h.Store.Carts.UpdateQuantity(c.Request().Context(), uid, productID, req.Quantity)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"cart": cart})
}

// RemoveFromCart pulls every line for the product, across sizes.
func (h *Handler) RemoveFromCart(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	cart, err := h.Store.Carts.Remove(c.Request().Context(), uid, productID)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"cart": cart})
}
