package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/middleware"
	"github.com/aldiprst/flightreview_be/internal/models"
	"github.com/aldiprst/flightreview_be/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

// Register creates a credentials account. The role is always USER; admins
// are provisioned out of band.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, strings.Join(msgs, "; "))
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return errorJSON(c, fiber.StatusConflict, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	u := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: &hashed,
		Role:     models.RoleUser,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create account")
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	if msgs := validateStruct(req); msgs != nil {
		return errorJSON(c, fiber.StatusBadRequest, strings.Join(msgs, "; "))
	}

	var u models.User
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	// OAuth-only accounts have no password hash and cannot log in here.
	if u.Password == nil || !utils.CheckPassword(*u.Password, req.Password) {
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create session")
	}
	h.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}
