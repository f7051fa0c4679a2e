package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"shoppulse/internal/infrastructure"
	"shoppulse/internal/rfm"
)

// ErrorHandler provides centralized error handling at the HTTP boundary.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs the error with request context and renders the
// appropriate structured response.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.toAPIError(r.Context(), err)

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
	)

	if renderErr := render.Render(w, r, NewErrorResponse(apiErr)); renderErr != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// toAPIError maps internal errors onto the API error taxonomy. RFM binning
// failures surface as configuration errors, context cancellation as
// service unavailability, everything else as an internal error.
func (h *ErrorHandler) toAPIError(ctx context.Context, err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, rfm.ErrInsufficientCustomers):
		return BinningError(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrServiceUnavailable
	default:
		return AnalysisError(err)
	}
}
