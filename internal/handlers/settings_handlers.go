package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mf360/internal/models"
	"mf360/internal/repositories"
	"mf360/internal/services"
)

// SettingsHandlers handles feature flags and data reseeding
type SettingsHandlers struct {
	settingsRepo repositories.SettingsRepository
	investorSvc  services.InvestorService
}

// NewSettingsHandlers creates a new settings handlers instance
func NewSettingsHandlers(settingsRepo repositories.SettingsRepository, investorSvc services.InvestorService) *SettingsHandlers {
	return &SettingsHandlers{
		settingsRepo: settingsRepo,
		investorSvc:  investorSvc,
	}
}

// GetFeatureFlags reads the singleton flags document, creating the defaults
// on first read.
func (h *SettingsHandlers) GetFeatureFlags(c echo.Context) error {
	ctx := c.Request().Context()

	flags, err := h.settingsRepo.GetFeatureFlags(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load feature flags")
	}
	return c.JSON(http.StatusOK, flags)
}

// UpdateFeatureFlags upserts the singleton flags document.
func (h *SettingsHandlers) UpdateFeatureFlags(c echo.Context) error {
	ctx := c.Request().Context()

	flags := &models.FeatureFlags{}
	if err := c.Bind(flags); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.settingsRepo.UpsertFeatureFlags(ctx, flags); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update feature flags")
	}
	return c.JSON(http.StatusOK, flags)
}

// ReseedData wipes the roster and regenerates the synthetic book.
func (h *SettingsHandlers) ReseedData(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.investorSvc.Reseed(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reseed data")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Seed data regenerated successfully"})
}
