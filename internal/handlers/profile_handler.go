package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/models"
	"github.com/aldiprst/flightreview_be/internal/utils"
)

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

type ProfileUpdateReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func profileJSON(u *models.User) fiber.Map {
	return fiber.Map{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"image":     u.Image,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(profileJSON(&u))
}

// Update changes name, email and/or password. Email moves only to an address
// no other account holds. A password change needs both currentPassword and
// newPassword, and is refused for accounts without a stored hash (OAuth).
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ProfileUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var u models.User
	if err := h.DB.First(&u, "id = ?", userID).Error; err != nil {
		return errorJSON(c, fiber.StatusNotFound, "User not found")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != u.Email {
		var existing models.User
		err := h.DB.Where("email = ? AND id <> ?", email, u.ID).First(&existing).Error
		if err == nil {
			return errorJSON(c, fiber.StatusBadRequest, "Email already in use")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
		}
		u.Email = email
	}

	if req.NewPassword != "" && req.CurrentPassword != "" {
		if u.Password == nil {
			return errorJSON(c, fiber.StatusBadRequest, "Cannot update password for this account type")
		}
		if !utils.CheckPassword(*u.Password, req.CurrentPassword) {
			return errorJSON(c, fiber.StatusBadRequest, "Current password is incorrect")
		}
		hashed, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
		}
		u.Password = &hashed
	}

	if err := h.DB.Save(&u).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(profileJSON(&u))
}
