package handlers

import (
	"messpay/internal/core/services"
	"messpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetOwnerDashboard returns mess owner dashboard data
// @Summary Owner Dashboard
// @Description Today's orders, active orders, tokens earned and revenue (mess owner or provider)
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/owner [get]
func (h *DashboardHandler) GetOwnerDashboard(c *fiber.Ctx) error {
	sess, err := currentSession(c)
	if err != nil {
		return writeError(c, err, "Failed to get owner dashboard")
	}

	data, err := h.dashboardService.OwnerStats(c.Context(), sess)
	if err != nil {
		return writeError(c, err, "Failed to get owner dashboard")
	}

	return response.Success(c, "Owner dashboard retrieved successfully", data)
}
