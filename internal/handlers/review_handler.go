package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/models"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

type ReviewCreateReq struct {
	FlightID string `json:"flightId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (h *ReviewHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Review{})

	if flightID := c.Query("flightId"); flightID != "" {
		q = q.Where("flight_id = ?", flightID)
	}
	if userID := c.Query("userId"); userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var reviews []models.Review
	err := q.
		Preload("User").
		Preload("Flight").
		Preload("Flight.Airline").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch reviews")
	}

	out := make([]fiber.Map, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, fiber.Map{
			"id":        r.ID,
			"userId":    r.UserID,
			"flightId":  r.FlightID,
			"content":   r.Content,
			"createdAt": r.CreatedAt,
			"updatedAt": r.UpdatedAt,
			"user":      userSummary(r.User),
			"flight":    r.Flight,
		})
	}

	return c.JSON(out)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ReviewCreateReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Content = strings.TrimSpace(req.Content)
	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Flight ID and review content are required")
	}

	var flight models.Flight
	if err := h.DB.First(&flight, "id = ?", req.FlightID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Flight not found")
	}

	review := models.Review{
		UserID:   userID,
		FlightID: flight.ID,
		Content:  req.Content,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create review")
	}

	if err := h.DB.Preload("User").Preload("Flight").Preload("Flight.Airline").
		First(&review, "id = ?", review.ID).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        review.ID,
		"userId":    review.UserID,
		"flightId":  review.FlightID,
		"content":   review.Content,
		"createdAt": review.CreatedAt,
		"updatedAt": review.UpdatedAt,
		"user":      userSummary(review.User),
		"flight":    review.Flight,
	})
}

// Delete removes a review by ?id=. Only the author or an admin may delete.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reviewID := c.Query("id")
	if reviewID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Review ID is required")
	}

	var review models.Review
	if err := h.DB.First(&review, "id = ?", reviewID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Review not found")
	}

	if review.UserID != userID && !isAdmin(c) {
		return errorJSON(c, fiber.StatusForbidden, "You are not authorized to delete this review")
	}

	if err := h.DB.Delete(&review).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete review")
	}

	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
