package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/auth"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/storage"
)

// parseObjectID reads a path parameter as a document id.
func parseObjectID(c echo.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+param)
	}
	return id, nil
}

// parsePagination reads page/limit query parameters with defaults.
func parsePagination(c echo.Context) (page, limit int64) {
	page, limit = 1, 10
	if v, err := strconv.ParseInt(c.QueryParam("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

// repoError maps repository and authorization failures to HTTP errors,
// hiding raw store errors from the client.
func repoError(err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMessage)
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "Conflicting record already exists")
	case errors.Is(err, auth.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, auth.ErrForbidden.Error())
	default:
		// keep the store error attached for server-side logging
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong").SetInternal(err)
	}
}

// uploadFormFile stores a multipart file in the object store. It returns
// (nil, nil) when the field is absent and not required.
func uploadFormFile(c echo.Context, store storage.ObjectStore, field, folder string, required bool) (*storage.UploadResult, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if required {
			return nil, echo.NewHTTPError(http.StatusBadRequest, field+" file is required")
		}
		return nil, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Failed to read "+field+" file")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := store.Upload(c.Request().Context(), folder, src, fileHeader.Size, contentType)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload "+field+" file").SetInternal(err)
	}
	return result, nil
}
