package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/export"
	"github.com/spektr-org/mpgscenes/scene"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	e.RequestID = middleware.GetReqID(r.Context())
	render.Status(r, e.StatusCode)
	return nil
}

// NewAPIError creates a new APIError with the given parameters
func NewAPIError(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// toAPIError maps domain sentinels onto HTTP statuses. Anything else is a
// 500 whose message is not exposed.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, scene.ErrUnknownScene):
		return NewAPIError(http.StatusNotFound, "SCENE_NOT_FOUND", err.Error())
	case errors.Is(err, engine.ErrUnknownMeasure):
		return NewAPIError(http.StatusNotFound, "MEASURE_NOT_FOUND", err.Error())
	case errors.Is(err, engine.ErrUnknownDimension):
		return NewAPIError(http.StatusBadRequest, "INVALID_DIMENSION", err.Error())
	case errors.Is(err, export.ErrUnknownFormat):
		return NewAPIError(http.StatusBadRequest, "INVALID_FORMAT", err.Error())
	default:
		return NewAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
	}
}

// writeError logs err and renders it as JSON.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	apiErr := toAPIError(err)
	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", apiErr.StatusCode),
		slog.String("path", r.URL.Path),
	)
	if rerr := render.Render(w, r, apiErr); rerr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
