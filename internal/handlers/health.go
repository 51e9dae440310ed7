package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/playtube/backend/internal/models"
)

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{"status": "ok"}, "Service is healthy"))
}
