package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// dashboard always answers 200 with a renderable context, even when the
// provider failed.
func (h *handlers) dashboard(c *fiber.Ctx) error {
	loc := weather.Location{
		City:    c.Query("city", h.DefaultLocation.City),
		Country: c.Query("country", h.DefaultLocation.Country),
	}

	rep := h.Weather.Page(c.UserContext(), loc)
	return c.JSON(rep)
}

func (h *handlers) currentWeather(c *fiber.Ctx) error {
	snap, err := h.Weather.Current(c.UserContext(), c.Query("city"))
	if err != nil {
		return weatherError(c, err)
	}
	return c.JSON(snap)
}

func (h *handlers) searchLocations(c *fiber.Ctx) error {
	results, err := h.Weather.SearchLocations(c.UserContext(), c.Query("q"))
	if err != nil {
		return weatherError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

func weatherError(c *fiber.Ctx, err error) error {
	return c.Status(weather.Status(err)).JSON(fiber.Map{"error": weather.Message(err)})
}
