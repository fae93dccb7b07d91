package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/aldiprst/flightreview_be/internal/middleware"
	"github.com/aldiprst/flightreview_be/internal/models"
	"github.com/aldiprst/flightreview_be/internal/utils"
)

// GoogleOAuthHandler signs users in through the Google OAuth code flow.
// Accounts created this way have no password hash; the profile endpoint
// refuses password changes for them.
type GoogleOAuthHandler struct {
	DB              *gorm.DB
	JWTSecret       string
	Expires         int
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    st,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "oauth_next",
		Value:    next,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})

	return c.Redirect(h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Missing code or state")
	}

	stCookie := c.Cookies("oauth_state")
	next := c.Cookies("oauth_next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}

	if stCookie == "" || stCookie != state {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid state")
	}

	tok, err := h.oauthCfg().Exchange(c.Context(), code)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Failed to exchange code")
	}

	client := h.oauthCfg().Client(c.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Failed to decode userinfo")
	}

	email := strings.ToLower(strings.TrimSpace(gu.Email))
	name := strings.TrimSpace(gu.Name)
	if email == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Email not provided by Google")
	}

	// upsert by email; no password hash for OAuth accounts
	var u models.User
	err = h.DB.Where("email = ?", email).First(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = models.User{
			Name:  name,
			Email: email,
			Image: gu.Picture,
			Role:  models.RoleUser,
		}
		if err := h.DB.Create(&u).Error; err != nil {
			log.Println("google signup failed:", err)
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to create account")
		}
	} else {
		changed := false
		if name != "" && u.Name != name {
			u.Name = name
			changed = true
		}
		if gu.Picture != "" && u.Image != gu.Picture {
			u.Image = gu.Picture
			changed = true
		}
		if changed {
			if err := h.DB.Save(&u).Error; err != nil {
				log.Println("google profile refresh failed:", err)
			}
		}
	}

	jwtToken, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    jwtToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	c.Cookie(&fiber.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, Secure: false, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: "oauth_next", Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, Secure: false, SameSite: "Lax"})

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}
