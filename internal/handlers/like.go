package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/middleware"
	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
)

// LikeHandler handles like toggle requests across content kinds
type LikeHandler struct {
	likeRepository    repositories.LikeRepository
	videoRepository   repositories.VideoRepository
	commentRepository repositories.CommentRepository
	tweetRepository   repositories.TweetRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, videoRepo repositories.VideoRepository, commentRepo repositories.CommentRepository, tweetRepo repositories.TweetRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:    likeRepo,
		videoRepository:   videoRepo,
		commentRepository: commentRepo,
		tweetRepository:   tweetRepo,
	}
}

// RegisterLikeRoutes registers like routes on the protected group.
func (h *LikeHandler) RegisterLikeRoutes(protected *echo.Group) {
	protected.POST("/content/:kind/:targetId/like/toggle", h.ToggleLike)
}

// ToggleLike flips the caller's like on a video, comment or tweet. The target
// must exist; repeating the request flips the state back.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	kind, ok := models.ParseLikeKind(c.Param("kind"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid content kind")
	}

	targetID, err := parseObjectID(c, "targetId")
	if err != nil {
		return err
	}

	if err := h.targetExists(c.Request().Context(), kind, targetID); err != nil {
		return repoError(err, "Target content not found")
	}

	user := middleware.CurrentUser(c)
	result, err := h.likeRepository.Toggle(c.Request().Context(), user.ID, kind, targetID)
	if err != nil {
		return repoError(err, "Target content not found")
	}

	message := "Like removed successfully"
	if result.State == models.ToggleOn {
		message = "Liked successfully"
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, result, message))
}

func (h *LikeHandler) targetExists(ctx context.Context, kind models.LikeKind, targetID primitive.ObjectID) error {
	var err error
	switch kind {
	case models.LikeKindVideo:
		_, err = h.videoRepository.GetByID(ctx, targetID)
	case models.LikeKindComment:
		_, err = h.commentRepository.GetByID(ctx, targetID)
	case models.LikeKindTweet:
		_, err = h.tweetRepository.GetByID(ctx, targetID)
	}
	return err
}
