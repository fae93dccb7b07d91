package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/middleware"
	"github.com/aldiprst/flightreview_be/internal/models"
	"github.com/aldiprst/flightreview_be/internal/utils"
)

const (
	testSecret  = "handler-test-secret"
	testExpires = 60
)

type testEnv struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

// setupTestEnv wires the full API against an in-memory SQLite database,
// mirroring the route table in cmd/api/main.go. enforceAdminWrites toggles
// the admin gate on airline/flight create and update.
func setupTestEnv(t *testing.T, enforceAdminWrites bool) *testEnv {
	t.Helper()

	// Named shared-cache memory DB: every pooled connection sees the same
	// database, and the name keeps tests isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Airline{},
		&models.Flight{},
		&models.Rating{},
		&models.Review{},
	)
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	authH := &AuthHandler{DB: db, JWTSecret: testSecret, Expires: testExpires}
	airlineH := NewAirlineHandler(db)
	flightH := NewFlightHandler(db)
	ratingH := NewRatingHandler(db)
	reviewH := NewReviewHandler(db)
	profileH := NewProfileHandler(db)

	authMW := middleware.JWTFromCookie(testSecret)
	localsMW := middleware.AttachJWTLocals()
	adminMW := middleware.RequireAdmin()

	api := app.Group("/api")

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)

	api.Get("/airlines", airlineH.List)
	api.Get("/airlines/:id", airlineH.Get)
	api.Get("/flights", flightH.List)
	api.Get("/flights/:id", flightH.Get)
	api.Get("/ratings", ratingH.List)
	api.Get("/reviews", reviewH.List)

	if enforceAdminWrites {
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

	api.Post("/ratings", authMW, localsMW, ratingH.Submit)
	api.Post("/reviews", authMW, localsMW, reviewH.Create)
	api.Delete("/reviews", authMW, localsMW, reviewH.Delete)
	api.Get("/profile", authMW, localsMW, profileH.Get)
	api.Put("/profile", authMW, localsMW, profileH.Update)

	return &testEnv{t: t, app: app, db: db}
}

// createUser inserts a user directly and returns it with a signed session
// cookie value.
func (e *testEnv) createUser(name, email, password string, role models.Role) (models.User, string) {
	e.t.Helper()

	u := models.User{Name: name, Email: email, Role: role}
	if password != "" {
		hashed, err := utils.HashPassword(password)
		if err != nil {
			e.t.Fatal(err)
		}
		u.Password = &hashed
	}
	if err := e.db.Create(&u).Error; err != nil {
		e.t.Fatal(err)
	}

	token, err := utils.SignJWT(testSecret, u.ID.String(), string(u.Role), testExpires)
	if err != nil {
		e.t.Fatal(err)
	}
	return u, token
}

func (e *testEnv) createAirline(name string) models.Airline {
	e.t.Helper()
	a := models.Airline{Name: name}
	if err := e.db.Create(&a).Error; err != nil {
		e.t.Fatal(err)
	}
	return a
}

func (e *testEnv) createFlight(airlineID uuid.UUID, number, origin, destination string, departure time.Time) models.Flight {
	e.t.Helper()
	f := models.Flight{
		FlightNumber:  number,
		Origin:        origin,
		Destination:   destination,
		DepartureTime: departure,
		ArrivalTime:   departure.Add(3 * time.Hour),
		AirlineID:     airlineID,
	}
	if err := e.db.Create(&f).Error; err != nil {
		e.t.Fatal(err)
	}
	return f
}

// request performs an HTTP call against the app. body may be nil; cookie is
// the session token ("" for anonymous).
func (e *testEnv) request(method, path string, body any, cookie string) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			e.t.Fatal(err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: cookie})
	}

	resp, err := e.app.Test(req, 5000)
	if err != nil {
		e.t.Fatal(err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}
