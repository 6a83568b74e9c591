package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "complaint-analytics/pkg/errors"
)

// HTTPResponse is the envelope of every report endpoint.
type HTTPResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

const internalErrorMessage = "Internal server error"

func SuccessResponse(c echo.Context, data interface{}, message string, code int) error {
	return c.JSON(code, &HTTPResponse{Success: true, Message: message, Data: data})
}

// ErrorResponse maps err to a status code and the error envelope. Internal details are
// logged, never returned.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return c.JSON(httpErr.Code, &HTTPResponse{
			Success: false,
			Message: httpErr.Message,
			Error:   http.StatusText(httpErr.Code),
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Success: false,
			Message: "Validation failed: " + strings.Join(msgs, "; "),
			Error:   http.StatusText(http.StatusBadRequest),
		})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) && echoErr.Code < http.StatusInternalServerError {
		return c.JSON(echoErr.Code, &HTTPResponse{
			Success: false,
			Message: fmt.Sprint(echoErr.Message),
			Error:   http.StatusText(echoErr.Code),
		})
	}

	for sentinel, code := range apperrors.Status {
		if errors.Is(err, sentinel) {
			return c.JSON(code, &HTTPResponse{Success: false, Message: sentinel.Error(), Error: http.StatusText(code)})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{
		Success: false,
		Message: internalErrorMessage,
		Error:   http.StatusText(http.StatusInternalServerError),
	})
}
