package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

// DashboardHandler handles channel dashboard requests
type DashboardHandler struct {
	dashboardRepository repositories.DashboardRepository
	videoRepository     repositories.VideoRepository
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardRepo repositories.DashboardRepository, videoRepo repositories.VideoRepository) *DashboardHandler {
	return &DashboardHandler{
		dashboardRepository: dashboardRepo,
		videoRepository:     videoRepo,
	}
}

// RegisterDashboardRoutes registers dashboard routes on the protected group.
func (h *DashboardHandler) RegisterDashboardRoutes(protected *echo.Group) {
	protected.GET("/dashboard/stats", h.GetChannelStats)
	protected.GET("/dashboard/videos", h.GetChannelVideos)
}

// GetChannelStats returns the caller's channel statistics.
func (h *DashboardHandler) GetChannelStats(c echo.Context) error {
	user := middleware.CurrentUser(c)

	stats, err := h.dashboardRepository.GetChannelStats(c.Request().Context(), user.ID)
	if err != nil {
		return repoError(err, "Channel does not exist")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, stats, "Channel stats fetched successfully"))
}

// GetChannelVideos lists all of the caller's videos, published or not.
func (h *DashboardHandler) GetChannelVideos(c echo.Context) error {
	user := middleware.CurrentUser(c)

	videos, err := h.videoRepository.GetByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return repoError(err, "Channel does not exist")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, videos, "Channel videos fetched successfully"))
}
