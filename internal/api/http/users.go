package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/auth"
)

const (
	localClaims = "claims"
	localToken  = "token"
)

func (h *handlers) register(c *fiber.Ctx) error {
	var req auth.Credentials
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	u, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return authError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *handlers) login(c *fiber.Ctx) error {
	var req auth.Credentials
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sess, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return authError(err)
	}
	return c.JSON(sess)
}

func (h *handlers) logout(c *fiber.Ctx) error {
	token, _ := c.Locals(localToken).(string)
	if err := h.Auth.Logout(c.UserContext(), token); err != nil {
		return authError(err)
	}
	return c.JSON(fiber.Map{"status": "logged out"})
}

// requireAuth accepts "Authorization: Bearer <token>" and stores the claims
// in c.Locals.
func (h *handlers) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	claims, err := h.Auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return authError(err)
	}

	c.Locals(localClaims, claims)
	c.Locals(localToken, token)
	return c.Next()
}

func currentUser(c *fiber.Ctx) string {
	if claims, ok := c.Locals(localClaims).(*auth.Claims); ok {
		return claims.Username
	}
	return ""
}

func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	default:
		return err
	}
}
