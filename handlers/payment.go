package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/metrics"
	"github.com/stridekart/stridekart-backend-go/models"
)

// CreatePaymentOrder opens a gateway-side order for the amount. The
// storefront retries on network failure; nothing is persisted here.
func (h *Handler) CreatePaymentOrder(c echo.Context) error {
	if _, ok := userID(c); !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Amount must be positive"})
	}

	gatewayOrder, err := h.Gateway.CreateOrder(req.Amount)
	if err != nil {
		log.Printf("gateway order create: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Failed to create payment order"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"order": gatewayOrder})
}

// VerifyPayment checks the gateway signature and, only on a match,
// finalizes the order through the same commit path as COD, marked paid.
// A forged or corrupted signature creates nothing and leaves the cart
// untouched.
func (h *Handler) VerifyPayment(c echo.Context) error {
	uid, ok := userID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
		PaymentMethod     string `json:"paymentMethod"`
		OrderDetails      struct {
			TotalPrice float64 `json:"totalPrice"`
		} `json:"orderDetails"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing payment verification fields"})
	}

	if !h.Gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.PaymentSignatureRejections.Inc()
		log.Printf("payment signature mismatch for user %s, gateway order %s", uid.Hex(), req.RazorpayOrderID)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Payment signature verification failed"})
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if method != models.PaymentMethodCard && method != models.PaymentMethodUPI {
		method = models.PaymentMethodCard
	}

	order, err := h.finalizeOrder(c.Request().Context(), uid, method, models.PaymentStatusPaid, req.OrderDetails.TotalPrice)
	if err != nil {
		return h.checkoutError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"orderId": order.CustomOrderID})
}
