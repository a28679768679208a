package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mf360/internal/analytics"
)

// DashboardHandlers serves the aggregate home-page snapshot
type DashboardHandlers struct {
	analyticsSvc analytics.AnalyticsService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(analyticsSvc analytics.AnalyticsService) *DashboardHandlers {
	return &DashboardHandlers{analyticsSvc: analyticsSvc}
}

// Stats returns total investors, pending KYC count, total AUM and the number
// of analyses run so far.
func (h *DashboardHandlers) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.analyticsSvc.DashboardStats(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to compute dashboard stats")
	}
	return c.JSON(http.StatusOK, stats)
}
