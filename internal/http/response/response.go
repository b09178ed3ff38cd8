package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	perrors "github.com/yungbote/petfit-backend/internal/pkg/errors"
	"github.com/yungbote/petfit-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps service errors onto status codes. Unclassified errors are logged by the
// request logger and answered with a generic 500.
func RespondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		msg := ae.Err
		if msg == nil {
			msg = ae
		}
		RespondError(c, ae.Status, ae.Code, msg)
		return
	}
	switch {
	case errors.Is(err, perrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, perrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, perrors.ErrUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(c, http.StatusGatewayTimeout, "timeout", err)
	case errors.Is(err, context.Canceled):
		RespondError(c, 499, "canceled", err)
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
