package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

// PlaylistHandler handles playlist curation requests
type PlaylistHandler struct {
	playlistRepository repositories.PlaylistRepository
	videoRepository    repositories.VideoRepository
}

// NewPlaylistHandler creates a new PlaylistHandler
func NewPlaylistHandler(playlistRepo repositories.PlaylistRepository, videoRepo repositories.VideoRepository) *PlaylistHandler {
	return &PlaylistHandler{
		playlistRepository: playlistRepo,
		videoRepository:    videoRepo,
	}
}

// RegisterPlaylistRoutes registers playlist routes. A user's playlists are
// readable anonymously.
func (h *PlaylistHandler) RegisterPlaylistRoutes(optional, protected *echo.Group) {
	optional.GET("/playlists/:playlistId", h.GetPlaylist)
	optional.GET("/users/:userId/playlists", h.GetUserPlaylists)
	protected.POST("/playlists", h.CreatePlaylist)
	protected.PATCH("/playlists/:playlistId", h.UpdatePlaylist)
	protected.DELETE("/playlists/:playlistId", h.DeletePlaylist)
	protected.PATCH("/playlists/:playlistId/videos/:videoId", h.AddVideoToPlaylist)
	protected.DELETE("/playlists/:playlistId/videos/:videoId", h.RemoveVideoFromPlaylist)
}

// CreatePlaylist creates an empty playlist owned by the caller.
func (h *PlaylistHandler) CreatePlaylist(c echo.Context) error {
	var req models.CreatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	playlist := &models.Playlist{
		Owner:       user.ID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.playlistRepository.Create(c.Request().Context(), playlist); err != nil {
		return repoError(err, "User not found")
	}

	return c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, playlist, "Playlist created successfully"))
}

// GetPlaylist returns a playlist by id.
func (h *PlaylistHandler) GetPlaylist(c echo.Context) error {
	playlistID, err := parseObjectID(c, "playlistId")
	if err != nil {
		return err
	}

	playlist, err := h.playlistRepository.GetByID(c.Request().Context(), playlistID)
	if err != nil {
		return repoError(err, "Playlist not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, playlist, "Playlist fetched successfully"))
}

// GetUserPlaylists lists a user's playlists, newest first.
func (h *PlaylistHandler) GetUserPlaylists(c echo.Context) error {
	ownerID, err := parseObjectID(c, "userId")
	if err != nil {
		return err
	}

	playlists, err := h.playlistRepository.GetByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, playlists, "Playlists fetched successfully"))
}

// UpdatePlaylist sets name and description. Only the owner may update.
func (h *PlaylistHandler) UpdatePlaylist(c echo.Context) error {
	playlistID, err := parseObjectID(c, "playlistId")
	if err != nil {
		return err
	}

	var req models.UpdatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.requireOwnedPlaylist(c, playlistID); err != nil {
		return err
	}

	updated, err := h.playlistRepository.UpdateDetails(c.Request().Context(), playlistID, req.Name, req.Description)
	if err != nil {
		return repoError(err, "Playlist not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Playlist updated successfully"))
}

// DeletePlaylist removes a playlist. Only the owner may delete.
func (h *PlaylistHandler) DeletePlaylist(c echo.Context) error {
	playlistID, err := parseObjectID(c, "playlistId")
	if err != nil {
		return err
	}

	if err := h.requireOwnedPlaylist(c, playlistID); err != nil {
		return err
	}

	if err := h.playlistRepository.Delete(c.Request().Context(), playlistID); err != nil {
		return repoError(err, "Playlist not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "Playlist deleted successfully"))
}

// AddVideoToPlaylist appends a video to the playlist. The video must exist,
// and adding it twice leaves the playlist unchanged.
func (h *PlaylistHandler) AddVideoToPlaylist(c echo.Context) error {
	playlistID, videoID, err := h.playlistAndVideoIDs(c)
	if err != nil {
		return err
	}

	if err := h.requireOwnedPlaylist(c, playlistID); err != nil {
		return err
	}
	if _, err := h.videoRepository.GetByID(c.Request().Context(), videoID); err != nil {
		return repoError(err, "Video not found")
	}

	updated, err := h.playlistRepository.AddVideo(c.Request().Context(), playlistID, videoID)
	if err != nil {
		return repoError(err, "Playlist not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Video added to playlist successfully"))
}

// RemoveVideoFromPlaylist pulls a video out of the playlist.
func (h *PlaylistHandler) RemoveVideoFromPlaylist(c echo.Context) error {
	playlistID, videoID, err := h.playlistAndVideoIDs(c)
	if err != nil {
		return err
	}

	if err := h.requireOwnedPlaylist(c, playlistID); err != nil {
		return err
	}

	updated, err := h.playlistRepository.RemoveVideo(c.Request().Context(), playlistID, videoID)
	if err != nil {
		return repoError(err, "Playlist not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Video removed from playlist successfully"))
}

func (h *PlaylistHandler) playlistAndVideoIDs(c echo.Context) (primitive.ObjectID, primitive.ObjectID, error) {
	playlistID, err := parseObjectID(c, "playlistId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	return playlistID, videoID, nil
}

func (h *PlaylistHandler) requireOwnedPlaylist(c echo.Context, playlistID primitive.ObjectID) error {
	playlist, err := h.playlistRepository.GetByID(c.Request().Context(), playlistID)
	if err != nil {
		return repoError(err, "Playlist not found")
	}
	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, playlist.Owner); err != nil {
		return repoError(err, "Playlist not found")
	}
	return nil
}
