package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/aldiprst/flightreview_be/internal/config"
	"github.com/aldiprst/flightreview_be/internal/db"
	"github.com/aldiprst/flightreview_be/internal/handlers"
	"github.com/aldiprst/flightreview_be/internal/middleware"
	"github.com/aldiprst/flightreview_be/internal/models"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Airline{},
		&models.Flight{},
		&models.Rating{},
		&models.Review{},
	); err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	airlineH := handlers.NewAirlineHandler(gdb)
	flightH := handlers.NewFlightHandler(gdb)
	ratingH := handlers.NewRatingHandler(gdb)
	reviewH := handlers.NewReviewHandler(gdb)
	profileH := handlers.NewProfileHandler(gdb)

	authMW := middleware.JWTFromCookie(cfg.JWTSecret)
	localsMW := middleware.AttachJWTLocals()
	adminMW := middleware.RequireAdmin()

	api := app.Group("/api")

	// auth
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// public reads
	api.Get("/airlines", airlineH.List)
	api.Get("/airlines/:id", airlineH.Get)
	api.Get("/flights", flightH.List)
	api.Get("/flights/:id", flightH.Get)
	api.Get("/ratings", ratingH.List)
	api.Get("/reviews", reviewH.List)

	// Airline/flight create and update: admin-gated only when
	// ENFORCE_ADMIN_WRITES is set. Deletes are always admin-only.
	if cfg.EnforceAdminWrites {
		api.Post("/airlines", authMW, adminMW, localsMW, airlineH.Create)
		api.Put("/airlines/:id", authMW, adminMW, localsMW, airlineH.Update)
		api.Post("/flights", authMW, adminMW, localsMW, flightH.Create)
		api.Put("/flights/:id", authMW, adminMW, localsMW, flightH.Update)
	} else {
		api.Post("/airlines", airlineH.Create)
		api.Put("/airlines/:id", airlineH.Update)
		api.Post("/flights", flightH.Create)
		api.Put("/flights/:id", flightH.Update)
	}
	api.Delete("/airlines/:id", authMW, adminMW, localsMW, airlineH.Delete)
	api.Delete("/flights/:id", authMW, adminMW, localsMW, flightH.Delete)

	// authenticated users
	api.Post("/ratings", authMW, localsMW, ratingH.Submit)
	api.Post("/reviews", authMW, localsMW, reviewH.Create)
	api.Delete("/reviews", authMW, localsMW, reviewH.Delete)
	api.Get("/profile", authMW, localsMW, profileH.Get)
	api.Put("/profile", authMW, localsMW, profileH.Update)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
