package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/metrics"
	"github.com/stridekart/stridekart-backend-go/models"
	"github.com/stridekart/stridekart-backend-go/store"
	"github.com/stridekart/stridekart-backend-go/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flat surcharges added on top of the item subtotal.
const (
	shippingCharge = 15
	deliveryCharge = 50
)

// Client-submitted totals are advisory. Differences beyond this are logged
// for investigation; the server-side figure is committed either way.
const clientTotalTolerance = 2

// SaveShippingAddress validates the address and writes it onto the user's
// single staged pending order, creating it if needed. Calling it again
// overwrites the same record.
func (h *Handler) SaveShippingAddress(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var addr models.Address
	if err := c.Bind(&addr); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if missing := addr.MissingFields(); len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}
	if addr.Country == "" {
		addr.Country = "India"
	}

	pending, err := h.Store.Orders.SavePendingAddress(c.Request().Context(), uid, addr)
	if err != nil {
		log.Printf("save shipping address for %s: %v", uid.Hex(), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save shipping address"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"shippingAddress": pending.ShippingAddress})
}

// PlaceCODOrder finalizes the cart as a cash-on-delivery order.
func (h *Handler) PlaceCODOrder(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		TotalPrice float64 `json:"totalPrice"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	order, err := h.finalizeOrder(c.Request().Context(), uid, models.PaymentMethodCOD, models.PaymentStatusPending, req.TotalPrice)
	if err != nil {
		return h.checkoutError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"order": order})
}

// finalizeOrder is the single commit path shared by COD and verified online
// payments: recompute the total from live prices, consume the staged
// pending order, snapshot the cart into an immutable order and clear the
// cart transactionally.
func (h *Handler) finalizeOrder(ctx context.Context, uid primitive.ObjectID, method models.PaymentMethod, payStatus models.PaymentStatus, clientTotal float64) (*models.Order, error) {
	cart, err := h.Store.Carts.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(cart.Products) == 0 {
		return nil, store.ErrCartEmpty
	}

	finalTotal := cart.Subtotal() + shippingCharge + deliveryCharge
	if clientTotal != 0 && math.Abs(clientTotal-finalTotal) > clientTotalTolerance {
		log.Printf("client total %.2f differs from computed total %.2f for user %s",
			clientTotal, finalTotal, uid.Hex())
	}

	// Address must be staged before anything is consumed.
	if _, err := h.Store.Orders.StagedPending(ctx, uid); err != nil {
		return nil, err
	}

	// Exactly one concurrent checkout wins this transition.
	pending, err := h.Store.Orders.ConsumePending(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, len(cart.Products))
	for _, line := range cart.Products {
		items = append(items, models.OrderItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Image:     line.Product.FirstImage(),
		})
	}

	order := &models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          uid,
		CustomOrderID:   utils.NewOrderID(),
		Items:           items,
		ShippingAddress: *pending.ShippingAddress,
		TotalPrice:      finalTotal,
		Status:          models.OrderStatusPending,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.Store.Orders.CommitOrder(ctx, order); err != nil {
		// Put the staged address back so the shopper can retry.
		if relErr := h.Store.Orders.ReleasePending(ctx, uid); relErr != nil {
			log.Printf("release pending order for %s: %v", uid.Hex(), relErr)
		}
		return nil, err
	}

	metrics.OrdersPlaced.WithLabelValues(string(method)).Inc()
	return order, nil
}

func (h *Handler) checkoutError(c echo.Context, err error) error {
	switch err {
	case store.ErrCartEmpty:
		metrics.CheckoutFailures.WithLabelValues("cart_empty").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Cart is empty"})
	case store.ErrNoShippingAddress:
		metrics.CheckoutFailures.WithLabelValues("no_address").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No saved shipping address"})
	case store.ErrCheckoutConflict:
		metrics.CheckoutFailures.WithLabelValues("conflict").Inc()
		return c.JSON(http.StatusConflict, map[string]string{"error": "Checkout already in progress"})
	default:
		log.Printf("checkout failed: %v", err)
		metrics.CheckoutFailures.WithLabelValues("internal").Inc()
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to place order"})
	}
}

// MyOrders lists the caller's orders, newest first.
func (h *Handler) MyOrders(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	orders, err := h.Store.Orders.ByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// AllOrders lists every order. Admin only.
func (h *Handler) AllOrders(c echo.Context) error {
	orders, err := h.Store.Orders.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

// UpdateOrderStatus applies an admin status change. Only legal transitions
// are accepted; items, address and total are never touched.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	status, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status value"})
	}

	updated, err := h.Store.Orders.UpdateStatus(c.Request().Context(), orderID, status)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}
	if err == store.ErrInvalidTransition {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Illegal status transition"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"updatedOrder": updated})
}
