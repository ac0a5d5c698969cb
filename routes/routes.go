package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stridekart/stridekart-backend-go/handlers"
	customMiddleware "github.com/stridekart/stridekart-backend-go/middleware"
)

func SetupRoutes(e *echo.Echo, h *handlers.Handler) {
	// Public routes
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.GET("/products", h.GetProducts)
	e.GET("/products/:id", h.GetProduct)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Profile and address book
	users := e.Group("/users", customMiddleware.Auth)
	users.GET("/me", h.GetProfile)
	users.PUT("/me", h.UpdateProfile)
	users.GET("/me/addresses", h.GetAddresses)
	users.POST("/me/addresses", h.AddAddress)
	users.PUT("/me/addresses/:id", h.UpdateAddress)
	users.DELETE("/me/addresses/:id", h.DeleteAddress)

	// Cart
	cart := e.Group("/cart", customMiddleware.Auth)
	cart.POST("/addToCart", h.AddToCart)
	cart.GET("/getCart", h.GetCart)
	cart.PUT("/updateCart", h.UpdateCart)
	cart.DELETE("/removeFromCart", h.RemoveFromCart)

	// Checkout and orders
	order := e.Group("/order", customMiddleware.Auth)
	order.POST("/shippingAddress", h.SaveShippingAddress)
	order.POST("/cod", h.PlaceCODOrder)
	order.GET("/my-orders", h.MyOrders)
	order.GET("/all-orders", h.AllOrders, customMiddleware.RequireAdmin)
	order.PUT("/status/:id", h.UpdateOrderStatus, customMiddleware.RequireAdmin)

	// Payment gateway
	pay := e.Group("/payment", customMiddleware.Auth)
	pay.POST("/create-order", h.CreatePaymentOrder)
	pay.POST("/verify-payment", h.VerifyPayment)

	// Admin product management
	e.POST("/products", h.CreateProduct, customMiddleware.Auth, customMiddleware.RequireAdmin)
}
