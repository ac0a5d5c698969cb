package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/payment"
	"github.com/stridekart/stridekart-backend-go/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler carries the dependencies request handlers need. Everything is
// injected; no package-level state.
type Handler struct {
	Store   *store.Store
	Gateway payment.Gateway
}

func New(s *store.Store, gw payment.Gateway) *Handler {
	return &Handler{Store: s, Gateway: gw}
}

func userID(c echo.Context) (primitive.ObjectID, bool) {
	id, ok := c.Get("userID").(primitive.ObjectID)
	return id, ok
}
