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

// CommentHandler handles video comment requests
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	videoRepository   repositories.VideoRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, videoRepo repositories.VideoRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		videoRepository:   videoRepo,
	}
}

// RegisterCommentRoutes registers comment routes. Reading a video's comments
// is open to anonymous callers.
func (h *CommentHandler) RegisterCommentRoutes(optional, protected *echo.Group) {
	optional.GET("/videos/:videoId/comments", h.GetVideoComments)
	protected.POST("/videos/:videoId/comments", h.AddComment)
	protected.PATCH("/comments/:commentId", h.UpdateComment)
	protected.DELETE("/comments/:commentId", h.DeleteComment)
}

// GetVideoComments lists a video's comments, newest first.
func (h *CommentHandler) GetVideoComments(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c)

	comments, err := h.commentRepository.GetByVideo(c.Request().Context(), videoID, page, limit)
	if err != nil {
		return repoError(err, "Video not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, comments, "Comments fetched successfully"))
}

// AddComment creates a comment on an existing video.
func (h *CommentHandler) AddComment(c echo.Context) error {
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment content is required")
	}

	if _, err := h.videoRepository.GetByID(c.Request().Context(), videoID); err != nil {
		return repoError(err, "Video not found")
	}

	user := middleware.CurrentUser(c)
	comment := &models.Comment{
		Video:   videoID,
		Owner:   user.ID,
		Content: content,
	}
	if err := h.commentRepository.Create(c.Request().Context(), comment); err != nil {
		return repoError(err, "Video not found")
	}

	return c.JSON(http.StatusCreated, models.NewAPIResponse(http.StatusCreated, comment, "Comment added successfully"))
}

// UpdateComment replaces a comment's text. Only the author may update.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	commentID, err := parseObjectID(c, "commentId")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment content is required")
	}

	comment, err := h.commentRepository.GetByID(c.Request().Context(), commentID)
	if err != nil {
		return repoError(err, "Comment not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, comment.Owner); err != nil {
		return repoError(err, "Comment not found")
	}

	updated, err := h.commentRepository.UpdateContent(c.Request().Context(), commentID, content)
	if err != nil {
		return repoError(err, "Comment not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, updated, "Comment updated successfully"))
}

// DeleteComment removes a comment. Only the author may delete.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := parseObjectID(c, "commentId")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetByID(c.Request().Context(), commentID)
	if err != nil {
		return repoError(err, "Comment not found")
	}

	user := middleware.CurrentUser(c)
	if err := auth.RequireOwner(user.ID, comment.Owner); err != nil {
		return repoError(err, "Comment not found")
	}

	if err := h.commentRepository.Delete(c.Request().Context(), commentID); err != nil {
		return repoError(err, "Comment not found")
	}
	return c.JSON(http.StatusOK, models.NewAPIResponse(http.StatusOK, echo.Map{}, "Comment deleted successfully"))
}
