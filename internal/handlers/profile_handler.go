package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/middleware"
	"github.com/nutriai/backend/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
	tracking *services.TrackingService
	overview *services.OverviewService
}

func NewProfileHandler(profiles *services.ProfileService, tracking *services.TrackingService, overview *services.OverviewService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, tracking: tracking, overview: overview}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	user, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.profiles.Update(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) Overview(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.overview.Get(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ProfileHandler) AddWeight(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.WeightRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.tracking.AddWeight(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *ProfileHandler) WeightHistory(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	resp, err := h.tracking.WeightHistory(c.UserContext(), userID, c.QueryInt("days", services.DefaultWeightHistoryDays))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ProfileHandler) AddWater(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.WaterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	log, err := h.tracking.AddWater(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(log)
}

func (h *ProfileHandler) SetSleep(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.SleepRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	log, err := h.tracking.SetSleep(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(log)
}
