package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

// TweetHandler handles channel post requests
type TweetHandler struct {
	tweetRepository repositories.TweetRepository
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(tweetRepo repositories.TweetRepository) *TweetHandler {
	return &TweetHandler{tweetRepository: tweetRepo}
}

// RegisterTweetRoutes registers tweet routes. A channel's tweets are readable
// anonymously.
func (h *TweetHandler) RegisterTweetRoutes(optional, protected *echo.Group) {
	optional.GET("/users/:userId/tweets", h.GetUserTweets)
	protected.POST("/tweets", h.CreateTweet)
	protected.PATCH("/tweets/:tweetId", h.UpdateTweet)
	protected.DELETE("/tweets/:tweetId", h.DeleteTweet)
}

// CreateTweet creates a tweet owned by the caller.
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	var req models.CreateTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Tweet content is required")
	}

	user := middleware.CurrentUser(c)
	tweet := &models.Tweet{
		Owner:   user.ID,
		Content: content,
	}
	if err := h.tweetRepository.Create(c.Request().Context(), tweet); err != nil {
		return repoError(err, "User not found")
	}

	return c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, tweet, "Tweet created successfully"))
}

// GetUserTweets lists a channel's tweets, newest first.
func (h *TweetHandler) GetUserTweets(c echo.Context) error {
	ownerID, err := parseObjectID(c, "userId")
	if err != nil {
		return err
	}

	tweets, err := h.tweetRepository.GetByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return repoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, tweets, "Tweets fetched successfully"))
}

// UpdateTweet replaces a tweet's text. Only the author may update.
func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	tweetID, err := parseObjectID(c, "tweetId")
	if err != nil {
		return err
	}

	var req models.UpdateTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Tweet content is required")
	}

	tweet, err := h.tweetRepository.GetByID(c.Request().Context(), tweetID)
	if err != nil {
		return repoError(err, "Tweet not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, tweet.Owner); err != nil {
		return repoError(err, "Tweet not found")
	}

	updated, err := h.tweetRepository.UpdateContent(c.Request().Context(), tweetID, content)
	if err != nil {
		return repoError(err, "Tweet not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Tweet updated successfully"))
}

// DeleteTweet removes a tweet. Only the author may delete.
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	tweetID, err := parseObjectID(c, "tweetId")
	if err != nil {
		return err
	}

	tweet, err := h.tweetRepository.GetByID(c.Request().Context(), tweetID)
	if err != nil {
		return repoError(err, "Tweet not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, tweet.Owner); err != nil {
		return repoError(err, "Tweet not found")
	}

	if err := h.tweetRepository.Delete(c.Request().Context(), tweetID); err != nil {
		return repoError(err, "Tweet not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "Tweet deleted successfully"))
}
