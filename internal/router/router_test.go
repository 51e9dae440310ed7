package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playtube/backend/internal/models"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, models.APIErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/videos")

	errorHandler(err, c)

	var resp models.APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestErrorHandlerLogsInternalFailures(t *testing.T) {
	logs := captureLog(t)

	cause := errors.New("connection reset by peer")
	rec, resp := renderError(t, echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong").SetInternal(cause))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "POST /api/v1/videos")
	assert.Contains(t, logs.String(), "connection reset by peer")

	// the cause stays server-side
	assert.Equal(t, "Something went wrong", resp.Message)
	assert.False(t, resp.Success)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestErrorHandlerLogsBareErrors(t *testing.T) {
	logs := captureLog(t)

	rec, resp := renderError(t, errors.New("topology closed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "topology closed")
	assert.Equal(t, "Internal Server Error", resp.Message)
	assert.NotContains(t, rec.Body.String(), "topology closed")
}

func TestErrorHandlerSkipsClientErrors(t *testing.T) {
	logs := captureLog(t)

	rec, resp := renderError(t, echo.NewHTTPError(http.StatusNotFound, "Video not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Video not found", resp.Message)
	assert.Empty(t, logs.String())
}
