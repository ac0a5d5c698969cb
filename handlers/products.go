package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stridekart/stridekart-backend-go/models"
	"github.com/stridekart/stridekart-backend-go/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) GetProducts(c echo.Context) error {
	products, err := h.Store.Products.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	product, err := h.Store.Products.ByID(c.Request().Context(), id)
	if err == store.ErrNotFound {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product data"})
	}
	if product.Name == "" || product.Price <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product requires a name and a positive price"})
	}

	if err := h.Store.Products.Create(c.Request().Context(), &product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}
	return c.JSON(http.StatusCreated, product)
}
