package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/models"
)

type AirlineHandler struct {
	DB *gorm.DB
}

func NewAirlineHandler(db *gorm.DB) *AirlineHandler {
	return &AirlineHandler{DB: db}
}

type AirlineReq struct {
	Name        string `json:"name" validate:"required"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
}

type airlineListItem struct {
	models.Airline
	FlightCount int64 `json:"flightCount"`
}

// List returns all airlines, optionally filtered by a case-insensitive
// substring of the name, ordered alphabetically and annotated with the
// number of flights each one operates.
func (h *AirlineHandler) List(c *fiber.Ctx) error {
	q := h.DB.Model(&models.Airline{})

	if name := c.Query("name"); name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var airlines []models.Airline
	if err := q.Order("name ASC").Find(&airlines).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch airlines")
	}

	out := make([]airlineListItem, 0, len(airlines))
	for _, a := range airlines {
		var flights int64
		h.DB.Model(&models.Flight{}).Where("airline_id = ?", a.ID).Count(&flights)
		out = append(out, airlineListItem{Airline: a, FlightCount: flights})
	}

	return c.JSON(out)
}

func (h *AirlineHandler) Get(c *fiber.Ctx) error {
	var airline models.Airline
	if err := h.DB.Preload("Flights").First(&airline, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Airline not found")
	}

	return c.JSON(airlineListItem{Airline: airline, FlightCount: int64(len(airline.Flights))})
}

func (h *AirlineHandler) Create(c *fiber.Ctx) error {
	var req AirlineReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, strings.Join(msgs, "; "))
	}

	var existing models.Airline
	err := h.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return errorJSON(c, fiber.StatusConflict, "Airline with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	airline := models.Airline{
		Name:        req.Name,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := h.DB.Create(&airline).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create airline")
	}

	return c.Status(fiber.StatusCreated).JSON(airline)
}

func (h *AirlineHandler) Update(c *fiber.Ctx) error {
	var req AirlineReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, strings.Join(msgs, "; "))
	}

	var airline models.Airline
	if err := h.DB.First(&airline, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Airline not found")
	}

	// name must stay unique across the other rows
	var duplicate models.Airline
	err := h.DB.Where("name = ? AND id <> ?", req.Name, airline.ID).First(&duplicate).Error
	if err == nil {
		return errorJSON(c, fiber.StatusConflict, "Another airline with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	airline.Name = req.Name
	airline.Logo = req.Logo
	airline.Description = req.Description

	if err := h.DB.Save(&airline).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update airline")
	}

	return c.JSON(airline)
}

// Delete removes an airline. Rejected while any flight still references it;
// flights must be deleted (or moved) first.
func (h *AirlineHandler) Delete(c *fiber.Ctx) error {
	var airline models.Airline
	if err := h.DB.First(&airline, "id = ?", c.Params("id")).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Airline not found")
	}

	var flights int64
	if err := h.DB.Model(&models.Flight{}).Where("airline_id = ?", airline.ID).Count(&flights).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}
	if flights > 0 {
		return errorJSON(c, fiber.StatusBadRequest, "Cannot delete airline with associated flights")
	}

	if err := h.DB.Delete(&airline).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete airline")
	}

	return c.JSON(fiber.Map{"success": true})
}
