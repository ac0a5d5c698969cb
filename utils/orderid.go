package utils

import (
	"time"

	"github.com/google/uuid"
)

// NewOrderID generates a customer-facing order reference, e.g.
// 20250314173205-7f3c9b2e. The timestamp keeps references roughly sortable;
// the uuid fragment makes collisions within a second vanishingly unlikely.
// A unique index on orders.customOrderId backstops it.
func NewOrderID() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}
