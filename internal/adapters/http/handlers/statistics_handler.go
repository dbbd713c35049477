package handlers

import (
	"loandesk/internal/core/domain"
	"loandesk/internal/core/services"
	"loandesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StatisticsHandler handles statistics endpoints
type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
	}
}

// Global returns ledger-wide loan statistics (admin only)
func (h *StatisticsHandler) Global(c *fiber.Ctx) error {
	stats, err := h.statisticsService.GetGlobalStatistics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}

// User returns loan statistics for one user
func (h *StatisticsHandler) User(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	// Regular users may only see their own statistics
	callerName, _ := c.Locals("username").(string)
	roles, _ := c.Locals("roles").([]string)
	isAdmin := false
	for _, r := range roles {
		if r == domain.RoleAdmin {
			isAdmin = true
		}
	}
	if username != callerName && !isAdmin {
		return response.Forbidden(c, "You are not allowed to view these statistics")
	}

	stats, err := h.statisticsService.GetUserStatistics(c.Context(), username)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics")
	}

	return response.Success(c, "Statistics retrieved successfully", stats)
}
