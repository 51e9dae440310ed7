package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/storage"
)

// UserHandler handles profile, channel and history requests
type UserHandler struct {
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
	store          storage.ObjectStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, likeRepo repositories.LikeRepository, store storage.ObjectStore) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		likeRepository: likeRepo,
		store:          store,
	}
}

// RegisterUserRoutes registers user routes. Channel profiles are readable
// anonymously; the optional group resolves the caller when a token is
// present so isSubscribed can be computed.
func (h *UserHandler) RegisterUserRoutes(optional, protected *echo.Group) {
	optional.GET("/channel/:username", h.GetChannelProfile)
	protected.GET("/user/me", h.GetCurrentUser)
	protected.PATCH("/user/me", h.UpdateAccount)
	protected.PATCH("/user/me/avatar", h.UpdateAvatar)
	protected.PATCH("/user/me/cover-image", h.UpdateCoverImage)
	protected.GET("/user/me/liked", h.GetLikedVideos)
	protected.GET("/user/me/watch-history", h.GetWatchHistory)
}

// GetCurrentUser returns the identity resolved by the auth middleware.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, user, "User fetched successfully"))
}

// UpdateAccount updates full name and email.
func (h *UserHandler) UpdateAccount(c echo.Context) error {
	var req models.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	updated, err := h.userRepository.UpdateAccount(c.Request().Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Account details updated successfully"))
}

// UpdateAvatar replaces the avatar image. The new object is uploaded before
// the record is updated, and the old object is removed only after the swap
// succeeded, so readers never see a dangling reference.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	user := middleware.CurrentUser(c)

	uploaded, err := uploadFormFile(c, h.store, "avatar", "avatars", true)
	if err != nil {
		return err
	}

	updated, err := h.userRepository.UpdateAvatar(c.Request().Context(), user.ID, models.FileRef{Key: uploaded.Key, URL: uploaded.URL})
	if err != nil {
		return repoError(err, "User not found")
	}

	if user.AvatarKey != "" {
		if err := h.store.Delete(c.Request().Context(), user.AvatarKey); err != nil {
			log.Printf("UpdateAvatar: failed to delete old avatar object %s: %v", user.AvatarKey, err)
		}
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Avatar image updated successfully"))
}

// UpdateCoverImage replaces the cover image with the same replace-then-delete
// ordering as UpdateAvatar.
func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	user := middleware.CurrentUser(c)

	uploaded, err := uploadFormFile(c, h.store, "coverImage", "covers", true)
	if err != nil {
		return err
	}

	updated, err := h.userRepository.UpdateCoverImage(c.Request().Context(), user.ID, models.FileRef{Key: uploaded.Key, URL: uploaded.URL})
	if err != nil {
		return repoError(err, "User not found")
	}

	if user.CoverKey != "" {
		if err := h.store.Delete(c.Request().Context(), user.CoverKey); err != nil {
			log.Printf("UpdateCoverImage: failed to delete old cover object %s: %v", user.CoverKey, err)
		}
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Cover image updated successfully"))
}

// GetChannelProfile returns a channel by username with subscriber counts and
// the caller's subscription flag.
func (h *UserHandler) GetChannelProfile(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is missing")
	}

	var callerID *primitive.ObjectID
	if caller := middleware.CurrentUser(c); caller != nil {
		callerID = &caller.ID
	}

	profile, err := h.userRepository.GetChannelProfile(c.Request().Context(), username, callerID)
	if err != nil {
		return repoError(err, "Channel does not exist")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, profile, "Channel fetched successfully"))
}

// GetLikedVideos returns the caller's liked videos, newest like first.
func (h *UserHandler) GetLikedVideos(c echo.Context) error {
	user := middleware.CurrentUser(c)
	page, limit := parsePagination(c)

	liked, err := h.likeRepository.GetLikedVideos(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, liked, "Liked videos fetched successfully"))
}

// GetWatchHistory returns the caller's watch history in stored order.
func (h *UserHandler) GetWatchHistory(c echo.Context) error {
	user := middleware.CurrentUser(c)

	history, err := h.userRepository.GetWatchHistory(c.Request().Context(), user.ID)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, history, "Watch history fetched successfully"))
}
