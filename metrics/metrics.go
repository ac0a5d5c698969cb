// Package metrics exposes Prometheus counters for the checkout flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Finalized orders, by payment method.",
	}, []string{"method"})

	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_failures_total",
		Help: "Rejected checkout attempts, by reason.",
	}, []string{"reason"})

	PaymentSignatureRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_payment_signature_rejections_total",
		Help: "Payment confirmations rejected for a bad gateway signature.",
	})
)
