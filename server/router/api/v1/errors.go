package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	chaterrors "github.com/neurosphere-lab/lumi/internal/errors"
)

// errorResponse maps a service error to an HTTP response. Structured chat
// errors carry their code; anything else collapses to the fallback
// message with a 500.
func errorResponse(c echo.Context, err error, fallback string) error {
	var chatErr *chaterrors.ChatError
	if !errors.As(err, &chatErr) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
	}

	status := http.StatusInternalServerError
	switch chatErr.Code {
	case chaterrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case chaterrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case chaterrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case chaterrors.ErrCodeLLMUnavailable, chaterrors.ErrCodeStoreUnavailable, chaterrors.ErrCodeTimeout:
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]string{
		"error": chatErr.Message,
		"code":  string(chatErr.Code),
	})
}
