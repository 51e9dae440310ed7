package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

// SubscriptionHandler handles channel subscription requests
type SubscriptionHandler struct {
	subscriptionRepository repositories.SubscriptionRepository
	userRepository         repositories.UserRepository
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionRepo repositories.SubscriptionRepository, userRepo repositories.UserRepository) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionRepository: subscriptionRepo,
		userRepository:         userRepo,
	}
}

// RegisterSubscriptionRoutes registers subscription routes on the protected
// group.
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(protected *echo.Group) {
	protected.POST("/channel/:channelId/subscription/toggle", h.ToggleSubscription)
	protected.GET("/channel/:channelId/subscribers", h.GetChannelSubscribers)
	protected.GET("/subscriptions/:subscriberId", h.GetSubscribedChannels)
}

// ToggleSubscription flips the caller's subscription to a channel. The channel
// must exist and must not be the caller's own.
func (h *SubscriptionHandler) ToggleSubscription(c echo.Context) error {
	channelID, err := parseObjectID(c, "channelId")
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if user.ID == channelID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot subscribe to your own channel")
	}

	if _, err := h.userRepository.GetByID(c.Request().Context(), channelID); err != nil {
		return repoError(err, "Channel does not exist")
	}

	result, err := h.subscriptionRepository.Toggle(c.Request().Context(), user.ID, channelID)
	if err != nil {
		return repoError(err, "Channel does not exist")
	}

	message := "Unsubscribed successfully"
	if result.State == models.ToggleOn {
		message = "Subscribed successfully"
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, result, message))
}

// GetChannelSubscribers lists the users subscribed to a channel.
func (h *SubscriptionHandler) GetChannelSubscribers(c echo.Context) error {
	channelID, err := parseObjectID(c, "channelId")
	if err != nil {
		return err
	}

	subscribers, err := h.subscriptionRepository.GetChannelSubscribers(c.Request().Context(), channelID)
	if err != nil {
		return repoError(err, "Channel does not exist")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, subscribers, "Subscribers fetched successfully"))
}

// GetSubscribedChannels lists the channels a user is subscribed to.
func (h *SubscriptionHandler) GetSubscribedChannels(c echo.Context) error {
	subscriberID, err := parseObjectID(c, "subscriberId")
	if err != nil {
		return err
	}

	channels, err := h.subscriptionRepository.GetSubscribedChannels(c.Request().Context(), subscriberID)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, channels, "Subscribed channels fetched successfully"))
}
