package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "leadflow.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// NoContent sends an empty 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := toAppError(err)

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

func toAppError(err error) *domainerrors.AppError {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrValidationFailed), errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.BadRequest(err.Error())
	case errors.Is(err, domainerrors.ErrUnavailable):
		return domainerrors.PersistenceFailed(err)
	case errors.Is(err, domainerrors.ErrNoOpTransition),
		errors.Is(err, domainerrors.ErrTransitionDenied),
		errors.Is(err, domainerrors.ErrMemberHasLeads):
		return domainerrors.Conflict(err)
	default:
		return domainerrors.InternalError(err)
	}
}
