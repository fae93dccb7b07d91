package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/models"
)

type RatingHandler struct {
	DB *gorm.DB
}

func NewRatingHandler(db *gorm.DB) *RatingHandler {
	return &RatingHandler{DB: db}
}

// RatingSubmitReq uses pointers so "field absent" and "field zero" stay
// distinct: an omitted category keeps its stored value on re-submission,
// while an explicit 0 overwrites.
type RatingSubmitReq struct {
	FlightID      string   `json:"flightId" validate:"required"`
	CheckIn       *float64 `json:"checkIn"`
	BoardingExp   *float64 `json:"boardingExp"`
	CabinCrew     *float64 `json:"cabinCrew"`
	SeatComfort   *float64 `json:"seatComfort"`
	FoodQuality   *float64 `json:"foodQuality"`
	Entertainment *float64 `json:"entertainment"`
	FlightPerf    *float64 `json:"flightPerf"`
	ValueForMoney *float64 `json:"valueForMoney"`
	OverallRating *float64 `json:"overallRating" validate:"required"`
}

// List returns ratings, optionally filtered by flight and/or user, newest
// first, each with a public user summary and the flight + airline.
func (h *RatingHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Rating{})

	if flightID := c.Query("flightId"); flightID != "" {
		q = q.Where("flight_id = ?", flightID)
	}
	if userID := c.Query("userId"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var ratings []models.Rating
	err := q.
		Preload("User").
		Preload("Flight").
		Preload("Flight.Airline").
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch ratings")
	}

	out := make([]fiber.Map, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, fiber.Map{
			"id":            r.ID,
			"userId":        r.UserID,
			"flightId":      r.FlightID,
			"checkIn":       r.CheckIn,
			"boardingExp":   r.BoardingExp,
			"cabinCrew":     r.CabinCrew,
			"seatComfort":   r.SeatComfort,
			"foodQuality":   r.FoodQuality,
			"entertainment": r.Entertainment,
			"flightPerf":    r.FlightPerf,
			"valueForMoney": r.ValueForMoney,
			"overallRating": r.OverallRating,
			"createdAt":     r.CreatedAt,
			"updatedAt":     r.UpdatedAt,
			"user":          userSummary(r.User),
			"flight":        r.Flight,
		})
	}

	return c.JSON(out)
}

// Submit creates or updates the caller's rating for a flight, keyed by the
// unique (userId, flightId) pair. First submission creates the row (201,
// omitted categories default to 0); later submissions update only the fields
// present in the request (200). Repeated submissions never produce a second
// row; the composite unique index backs this up if two requests race.
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req RatingSubmitReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Flight ID and overall rating are required")
	}

	var flight models.Flight
	if err := h.DB.First(&flight, "id = ?", req.FlightID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Flight not found")
	}

	var rating models.Rating
	err = h.DB.Where("user_id = ? AND flight_id = ?", userID, flight.ID).First(&rating).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	created := errors.Is(err, gorm.ErrRecordNotFound)

	if created {
		rating = models.Rating{
			UserID:        userID,
			FlightID:      flight.ID,
			CheckIn:       orZero(req.CheckIn),
			BoardingExp:   orZero(req.BoardingExp),
			CabinCrew:     orZero(req.CabinCrew),
			SeatComfort:   orZero(req.SeatComfort),
			FoodQuality:   orZero(req.FoodQuality),
			Entertainment: orZero(req.Entertainment),
			FlightPerf:    orZero(req.FlightPerf),
			ValueForMoney: orZero(req.ValueForMoney),
			OverallRating: *req.OverallRating,
		}
		if err := h.DB.Create(&rating).Error; err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to save rating")
		}
	} else {
		applyIfSet(&rating.CheckIn, req.CheckIn)
		applyIfSet(&rating.BoardingExp, req.BoardingExp)
		applyIfSet(&rating.CabinCrew, req.CabinCrew)
		applyIfSet(&rating.SeatComfort, req.SeatComfort)
		applyIfSet(&rating.FoodQuality, req.FoodQuality)
		applyIfSet(&rating.Entertainment, req.Entertainment)
		applyIfSet(&rating.FlightPerf, req.FlightPerf)
		applyIfSet(&rating.ValueForMoney, req.ValueForMoney)
		rating.OverallRating = *req.OverallRating

		if err := h.DB.Save(&rating).Error; err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to save rating")
		}
	}

	if err := h.DB.Preload("Flight").Preload("Flight.Airline").First(&rating, "id = ?", rating.ID).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(rating)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func applyIfSet(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// RatingAverages is the read-side aggregate for one flight: the arithmetic
// mean of every numeric rating field. Never persisted; recomputed per read.
type RatingAverages struct {
	CheckIn       float64 `json:"checkIn"`
	BoardingExp   float64 `json:"boardingExp"`
	CabinCrew     float64 `json:"cabinCrew"`
	SeatComfort   float64 `json:"seatComfort"`
	FoodQuality   float64 `json:"foodQuality"`
	Entertainment float64 `json:"entertainment"`
	FlightPerf    float64 `json:"flightPerf"`
	ValueForMoney float64 `json:"valueForMoney"`
	OverallRating float64 `json:"overallRating"`
}

func averageRatings(ratings []models.Rating) RatingAverages {
	var avg RatingAverages
	if len(ratings) == 0 {
		return avg
	}

	for _, r := range ratings {
		avg.CheckIn += r.CheckIn
		avg.BoardingExp += r.BoardingExp
		avg.CabinCrew += r.CabinCrew
		avg.SeatComfort += r.SeatComfort
		avg.FoodQuality += r.FoodQuality
		avg.Entertainment += r.Entertainment
		avg.FlightPerf += r.FlightPerf
		avg.ValueForMoney += r.ValueForMoney
		avg.OverallRating += r.OverallRating
	}

	n := float64(len(ratings))
	avg.CheckIn /= n
	avg.BoardingExp /= n
	avg.CabinCrew /= n
	avg.SeatComfort /= n
	avg.FoodQuality /= n
	avg.Entertainment /= n
	avg.FlightPerf /= n
	avg.ValueForMoney /= n
	avg.OverallRating /= n

	return avg
}
