package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/models"
)

type FlightHandler struct {
	DB *gorm.DB
}

func NewFlightHandler(db *gorm.DB) *FlightHandler {
	return &FlightHandler{DB: db}
}

type FlightReq struct {
	FlightNumber  string     `json:"flightNumber" validate:"required"`
	Origin        string     `json:"origin" validate:"required"`
	Destination   string     `json:"destination" validate:"required"`
	DepartureTime *time.Time `json:"departureTime" validate:"required"`
	ArrivalTime   *time.Time `json:"arrivalTime" validate:"required"`
	AirlineID     string     `json:"airlineId" validate:"required"`
}

type flightListItem struct {
	models.Flight
	RatingCount int64 `json:"ratingCount"`
	ReviewCount int64 `json:"reviewCount"`
}

type flightDetail struct {
	models.Flight
	RatingCount int64          `json:"ratingCount"`
	ReviewCount int64          `json:"reviewCount"`
	Averages    RatingAverages `json:"averages"`
}

// List returns flights ordered by departure time. Filters: origin and
// destination (case-insensitive substring), airline name (joined through
// airlines), and date=YYYY-MM-DD matching the half-open window
// [day 00:00, next day 00:00) on departureTime.
func (h *FlightHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Flight{})

	if origin := c.Query("origin"); origin != "" {
		q = q.Where("LOWER(flights.origin) LIKE ?", "%"+strings.ToLower(origin)+"%")
	}
	if destination := c.Query("destination"); destination != "" {
		q = q.Where("LOWER(flights.destination) LIKE ?", "%"+strings.ToLower(destination)+"%")
	}
	if airline := c.Query("airline"); airline != "" {
		q = q.Joins("JOIN airlines ON airlines.id = flights.airline_id").
			Where("LOWER(airlines.name) LIKE ?", "%"+strings.ToLower(airline)+"%")
	}
	if date := c.Query("date"); date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid date filter, expected YYYY-MM-DD")
		}
		q = q.Where("flights.departure_time >= ? AND flights.departure_time < ?", day, day.AddDate(0, 0, 1))
	}

	var flights []models.Flight
	if err := q.Preload("Airline").Order("flights.departure_time ASC").Find(&flights).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch flights")
	}

	out := make([]flightListItem, 0, len(flights))
	for _, f := range flights {
		var ratings, reviews int64
		h.DB.Model(&models.Rating{}).Where("flight_id = ?", f.ID).Count(&ratings)
		h.DB.Model(&models.Review{}).Where("flight_id = ?", f.ID).Count(&reviews)
		out = append(out, flightListItem{Flight: f, RatingCount: ratings, ReviewCount: reviews})
	}

	return c.JSON(out)
}

// Get returns one flight with its airline, all ratings and reviews, and the
// per-category rating averages computed fresh from the loaded ratings.
func (h *FlightHandler) Get(c *fiber.Ctx) error {
	var flight models.Flight
	err := h.DB.
		Preload("Airline").
		Preload("Ratings").
		Preload("Reviews").
		First(&flight, "id = ?", c.Params("id")).Error
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Flight not found")
	}

	return c.JSON(flightDetail{
		Flight:      flight,
		RatingCount: int64(len(flight.Ratings)),
		ReviewCount: int64(len(flight.Reviews)),
		Averages:    averageRatings(flight.Ratings),
	})
}

func (h *FlightHandler) parseReq(c *fiber.Ctx) (*FlightReq, error) {
	var req FlightReq
	if err := c.BodyParser(&req); err != nil {
		return nil, errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.FlightNumber = strings.TrimSpace(req.FlightNumber)
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)

	if msgs := validateStruct(req); msgs != nil {
		return nil, errorJSON(c, fiber.StatusBadRequest, "Missing required fields: "+strings.Join(msgs, "; "))
	}

	if !req.ArrivalTime.After(*req.DepartureTime) {
		return nil, errorJSON(c, fiber.StatusBadRequest, "Arrival time must be after departure time")
	}

	return &req, nil
}

func (h *FlightHandler) Create(c *fiber.Ctx) error {
	req, err := h.parseReq(c)
	if req == nil {
		return err
	}

	var airline models.Airline
	if err := h.DB.First(&airline, "id = ?", req.AirlineID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Airline not found")
	}

	flight := models.Flight{
		FlightNumber:  req.FlightNumber,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureTime: *req.DepartureTime,
		ArrivalTime:   *req.ArrivalTime,
		AirlineID:     airline.ID,
	}
	if err := h.DB.Create(&flight).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create flight")
	}

	flight.Airline = &airline
	return c.Status(fiber.StatusCreated).JSON(flight)
}

func (h *FlightHandler) Update(c *fiber.Ctx) error {
	req, err := h.parseReq(c)
	if req == nil {
		return err
	}

	var flight models.Flight
	if err := h.DB.First(&flight, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Flight not found")
	}

	var airline models.Airline
	if err := h.DB.First(&airline, "id = ?", req.AirlineID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Airline not found")
	}

	flight.FlightNumber = req.FlightNumber
	flight.Origin = req.Origin
	flight.Destination = req.Destination
	flight.DepartureTime = *req.DepartureTime
	flight.ArrivalTime = *req.ArrivalTime
	flight.AirlineID = airline.ID

	if err := h.DB.Save(&flight).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update flight")
	}

	flight.Airline = &airline
	return c.JSON(flight)
}

// Delete removes a flight; the store cascades to its ratings and reviews.
func (h *FlightHandler) Delete(c *fiber.Ctx) error {
	var flight models.Flight
	if err := h.DB.First(&flight, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Flight not found")
	}

	if err := h.DB.Delete(&flight).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete flight")
	}

	return c.JSON(fiber.Map{"success": true})
}
