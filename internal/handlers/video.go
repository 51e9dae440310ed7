package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/storage"
)

// VideoHandler handles video publishing, playback and catalog requests
type VideoHandler struct {
	videoRepository repositories.VideoRepository
	userRepository  repositories.UserRepository
	store           storage.ObjectStore
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoRepo repositories.VideoRepository, userRepo repositories.UserRepository, store storage.ObjectStore) *VideoHandler {
	return &VideoHandler{
		videoRepository: videoRepo,
		userRepository:  userRepo,
		store:           store,
	}
}

// RegisterVideoRoutes registers video routes. Listing and playback are open
// to anonymous callers; playback personalizes history when a token is
// present.
func (h *VideoHandler) RegisterVideoRoutes(optional, protected *echo.Group) {
	optional.GET("/videos", h.ListVideos)
	optional.GET("/videos/:videoId", h.GetVideo)
	protected.POST("/videos", h.PublishVideo)
	protected.PATCH("/videos/:videoId", h.UpdateVideo)
	protected.DELETE("/videos/:videoId", h.DeleteVideo)
	protected.PATCH("/videos/:videoId/toggle-publish", h.TogglePublish)
}

// PublishVideo uploads the video file and thumbnail and creates the document
// owned by the caller.
func (h *VideoHandler) PublishVideo(c echo.Context) error {
	var req models.PublishVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	videoFile, err := uploadFormFile(c, h.store, "videoFile", "videos", true)
	if err != nil {
		return err
	}
	thumbnail, err := uploadFormFile(c, h.store, "thumbnail", "thumbnails", true)
	if err != nil {
		return err
	}

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)

	user := middleware.CurrentUser(c)
	video := &models.Video{
		Owner:       user.ID,
		VideoFile:   models.FileRef{Key: videoFile.Key, URL: videoFile.URL},
		Thumbnail:   models.FileRef{Key: thumbnail.Key, URL: thumbnail.URL},
		Title:       req.Title,
		Description: req.Description,
		Duration:    duration,
		IsPublished: true,
	}
	if err := h.videoRepository.Create(c.Request().Context(), video); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to publish video").SetInternal(err)
	}

	return c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, video, "Video published successfully"))
}

// GetVideo returns a video by id. Successful fetches count a view and, for
// authenticated callers, move the video to the front of their watch history.
func (h *VideoHandler) GetVideo(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.videoRepository.GetByID(c.Request().Context(), videoID)
	if err != nil {
		return repoError(err, "Video not found")
	}

	if err := h.videoRepository.IncrementViews(c.Request().Context(), videoID); err != nil {
		log.Printf("GetVideo: failed to count view for %s: %v", videoID.Hex(), err)
	} else {
		video.Views++
	}

	if user := middleware.CurrentUser(c); user != nil {
		if err := h.userRepository.AddToWatchHistory(c.Request().Context(), user.ID, videoID); err != nil {
			log.Printf("GetVideo: failed to record watch history for %s: %v", user.ID.Hex(), err)
		}
	}

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, video, "Video fetched successfully"))
}

// ListVideos returns published videos with optional search, sort and owner
// filters.
func (h *VideoHandler) ListVideos(c echo.Context) error {
	page, limit := parsePagination(c)
	opts := models.VideoListOptions{
		Page:    page,
		Limit:   limit,
		Query:   c.QueryParam("query"),
		SortBy:  c.QueryParam("sortBy"),
		SortAsc: c.QueryParam("sortType") == "asc",
	}
	if raw := c.QueryParam("userId"); raw != "" {
		ownerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid userId")
		}
		opts.OwnerID = &ownerID
	}

	videos, err := h.videoRepository.List(c.Request().Context(), opts)
	if err != nil {
		return repoError(err, "Videos not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, videos, "Videos fetched successfully"))
}

// UpdateVideo updates title, description and optionally the thumbnail. Only
// the owner may update.
func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	var req models.UpdateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	video, err := h.videoRepository.GetByID(c.Request().Context(), videoID)
	if err != nil {
		return repoError(err, "Video not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, video.Owner); err != nil {
		return repoError(err, "Video not found")
	}

	var thumbnail *models.FileRef
	uploaded, err := uploadFormFile(c, h.store, "thumbnail", "thumbnails", false)
	if err != nil {
		return err
	}
	if uploaded != nil {
		thumbnail = &models.FileRef{Key: uploaded.Key, URL: uploaded.URL}
	}

	updated, err := h.videoRepository.UpdateDetails(c.Request().Context(), videoID, req.Title, req.Description, thumbnail)
	if err != nil {
		return repoError(err, "Video not found")
	}

	if thumbnail != nil && video.Thumbnail.Key != "" {
		if err := h.store.Delete(c.Request().Context(), video.Thumbnail.Key); err != nil {
			log.Printf("UpdateVideo: failed to delete old thumbnail %s: %v", video.Thumbnail.Key, err)
		}
	}

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Video updated successfully"))
}

// DeleteVideo removes the video document and its stored objects. Only the
// owner may delete.
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.videoRepository.GetByID(c.Request().Context(), videoID)
	if err != nil {
		return repoError(err, "Video not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, video.Owner); err != nil {
		return repoError(err, "Video not found")
	}

	if err := h.videoRepository.Delete(c.Request().Context(), videoID); err != nil {
		return repoError(err, "Video not found")
	}

	for _, key := range []string{video.VideoFile.Key, video.Thumbnail.Key} {
		if key == "" {
			continue
		}
		if err := h.store.Delete(c.Request().Context(), key); err != nil {
			log.Printf("DeleteVideo: failed to delete object %s: %v", key, err)
		}
	}

	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "Video deleted successfully"))
}

// TogglePublish flips the publish flag. Only the owner may toggle.
func (h *VideoHandler) TogglePublish(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.videoRepository.GetByID(c.Request().Context(), videoID)
	if err != nil {
		return repoError(err, "Video not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, video.Owner); err != nil {
		return repoError(err, "Video not found")
	}

	updated, err := h.videoRepository.SetPublished(c.Request().Context(), videoID, !video.IsPublished)
	if err != nil {
		return repoError(err, "Video not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Publish status toggled successfully"))
}
