package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stridekart/stridekart-backend-go/config"
	"github.com/stridekart/stridekart-backend-go/database"
	"github.com/stridekart/stridekart-backend-go/handlers"
	"github.com/stridekart/stridekart-backend-go/payment"
	"github.com/stridekart/stridekart-backend-go/routes"
	"github.com/stridekart/stridekart-backend-go/store"
)

func main() {
	config.LoadEnv()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	db, err := database.Connect(
		config.MustGetEnv("MONGODB_URI"),
		config.GetEnv("MONGODB_DB", "stridekart"),
	)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}

	gateway := payment.NewClient(
		config.MustGetEnv("RAZORPAY_KEY_ID"),
		config.MustGetEnv("RAZORPAY_KEY_SECRET"),
	)

	h := handlers.New(store.NewMongo(db), gateway)
	routes.SetupRoutes(e, h)

	port := config.GetEnv("PORT", "3000")
	e.Logger.Fatal(e.Start(":" + port))
}
