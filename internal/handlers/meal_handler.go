package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/middleware"
	"github.com/nutriai/backend/internal/services"
)

type MealHandler struct {
	meals *services.MealService
}

func NewMealHandler(meals *services.MealService) *MealHandler {
	return &MealHandler{meals: meals}
}

func (h *MealHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	meals, err := h.meals.List(c.UserContext(), userID, c.Query("date"), c.QueryInt("limit", services.DefaultMealLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(meals)
}

func (h *MealHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateMealRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	meal, err := h.meals.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(meal)
}

func (h *MealHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	mealID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid meal ID",
		})
	}
	var req dto.UpdateMealRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	meal, err := h.meals.Update(c.UserContext(), userID, mealID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(meal)
}

func (h *MealHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	mealID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid meal ID",
		})
	}

	if err := h.meals.Delete(c.UserContext(), userID, mealID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "deleted"})
}

// AnalyzePhoto accepts a multipart "file" and records a placeholder meal.
// The image itself is not stored.
func (h *MealHandler) AnalyzePhoto(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "file is required",
		})
	}

	resp, err := h.meals.CreateFromPhoto(c.UserContext(), userID, filepath.Base(file.Filename))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
