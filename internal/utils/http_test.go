package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
		data       interface{}
	}{
		{
			name:       "Success with map data",
			statusCode: http.StatusOK,
			message:    "Fleet view",
			data:       map[string]interface{}{"state": "no_active"},
		},
		{
			name:       "Success with nil data",
			statusCode: http.StatusAccepted,
			message:    "Driving stopped",
			data:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, SuccessResponse(c, tt.statusCode, tt.message, tt.data))
			assert.Equal(t, tt.statusCode, rec.Code)

			var response Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.True(t, response.Success)
			assert.Equal(t, tt.message, response.Message)
			assert.Empty(t, response.Error)
		})
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(echo.Context) error
		statusCode int
		message    string
	}{
		{"bad request", func(c echo.Context) error { return BadRequestResponse(c, "route must be at least 1") }, http.StatusBadRequest, "route must be at least 1"},
		{"conflict", func(c echo.Context) error { return ConflictResponse(c, "already driving") }, http.StatusConflict, "already driving"},
		{"precondition", func(c echo.Context) error { return PreconditionFailedResponse(c, "route and direction required") }, http.StatusPreconditionFailed, "route and direction required"},
		{"not found default", func(c echo.Context) error { return NotFoundResponse(c, "") }, http.StatusNotFound, "Resource not found"},
		{"internal default", func(c echo.Context) error { return InternalServerErrorResponse(c, "") }, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, tt.respond(c))
			assert.Equal(t, tt.statusCode, rec.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.message, response.Error)
			assert.Equal(t, tt.statusCode, response.Code)
		})
	}
}
