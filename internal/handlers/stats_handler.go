package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/middleware"
	"github.com/nutriai/backend/internal/nutrition"
	"github.com/nutriai/backend/internal/services"
)

type StatsHandler struct {
	stats *services.StatsService
}

func NewStatsHandler(stats *services.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) Summary(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.stats.Summary(c.UserContext(), userID, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	days, err := c.ParamsInt("days")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "days must be an integer",
		})
	}

	resp, err := h.stats.History(c.UserContext(), userID, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) Weekly(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.stats.WeeklyStats(c.UserContext(), userID, c.QueryInt("weeks", services.DefaultWeeklyWeeks))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) Forecast(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.stats.Forecast(c.UserContext(), userID, c.QueryInt("days", nutrition.ForecastDefaultDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *StatsHandler) Macros(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.stats.Macros(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
