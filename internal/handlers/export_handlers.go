package handlers

import (
	"net/http"

	"pedalgo/internal/analytics"

	"github.com/labstack/echo/v4"
)

// ExportHandlers serves the aggregated usage report for BI tooling.
type ExportHandlers struct {
	analyticsSvc *analytics.AnalyticsService
}

func NewExportHandlers(analyticsSvc *analytics.AnalyticsService) *ExportHandlers {
	return &ExportHandlers{analyticsSvc: analyticsSvc}
}

func (h *ExportHandlers) ExportPowerBI(c echo.Context) error {
	data, err := h.analyticsSvc.Report(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}
	return c.JSONBlob(http.StatusOK, data)
}
