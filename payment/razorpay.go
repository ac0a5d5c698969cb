// Package payment wraps the Razorpay gateway: intent creation through the
// official client and HMAC verification of payment confirmations.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway is the surface the handlers need; tests substitute a fake.
type Gateway interface {
	// CreateOrder opens a gateway-side order for amount (in rupees) and
	// returns its attributes, including the gateway order id.
	CreateOrder(amount float64) (map[string]interface{}, error)
	// VerifySignature checks that a payment confirmation was signed by the
	// gateway. A mismatch means the confirmation is forged or corrupted.
	VerifySignature(orderID, paymentID, signature string) bool
}

type Client struct {
	rz     *razorpay.Client
	secret string
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		rz:     razorpay.NewClient(keyID, keySecret),
		secret: keySecret,
	}
}

func (c *Client) CreateOrder(amount float64) (map[string]interface{}, error) {
	// Razorpay amounts are in paise.
	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "INR",
	}
	order, err := c.rz.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return order, nil
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.secret)
}

// Sign computes Razorpay's documented signature,
// HMAC-SHA256(order_id + "|" + payment_id) keyed with the merchant secret.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it in
// constant time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
