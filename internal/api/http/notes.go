package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/notes"
)

type noteRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Image      string `json:"image" validate:"omitempty,max=255"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *handlers) listNotes(c *fiber.Ctx) error {
	var categoryID int64
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "category must be a positive integer")
		}
		categoryID = id
	}

	list, err := h.Notes.ListNotes(c.UserContext(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notes": list})
}

func (h *handlers) getNote(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	n, err := h.Notes.GetNote(c.UserContext(), int64(id))
	if errors.Is(err, notes.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(n)
}

func (h *handlers) createNote(c *fiber.Ctx) error {
	var req noteRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	n, err := h.Notes.CreateNote(c.UserContext(), notes.Note{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Image:      req.Image,
		User:       currentUser(c),
	})
	if errors.Is(err, notes.ErrUnknownCategory) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}

	h.Logger.Infow("note created", "id", n.ID, "user", n.User)
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (h *handlers) listCategories(c *fiber.Ctx) error {
	list, err := h.Notes.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": list})
}

func (h *handlers) createCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	cat, err := h.Notes.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}
