package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/auth"
	"github.com/i474232898/weather-dashboard/internal/notes"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// Services bundles what the handlers depend on.
type Services struct {
	Weather         *weather.Service
	Notes           *notes.Store
	Auth            *auth.Service
	DefaultLocation weather.Location
	Logger          *zap.SugaredLogger
}

// NewApp creates a Fiber app whose error responses are {"error": message}.
func NewApp(log *zap.SugaredLogger) *fiber.App {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})
}

func errorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		} else {
			log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, s Services) {
	if s.Logger == nil {
		s.Logger = zap.NewNop().Sugar()
	}

	h := &handlers{Services: s}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	if s.Weather != nil {
		app.Get("/", h.dashboard)
		app.Get("/weather", h.dashboard)

		api := app.Group("/api")
		api.Get("/weather", h.currentWeather)
		api.Get("/search", h.searchLocations)
	}

	if s.Auth != nil {
		users := app.Group("/users")
		users.Post("/register", h.register)
		users.Post("/login", h.login)
		users.Post("/logout", h.requireAuth, h.logout)
	}

	if s.Notes != nil {
		app.Get("/notes", h.listNotes)
		app.Get("/notes/:id", h.getNote)
		app.Get("/categories", h.listCategories)
		if s.Auth != nil {
			app.Post("/notes", h.requireAuth, h.createNote)
			app.Post("/categories", h.requireAuth, h.createCategory)
		}
	}
}

type handlers struct {
	Services
}

// bindJSON parses the body into v and validates it.
func bindJSON(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
