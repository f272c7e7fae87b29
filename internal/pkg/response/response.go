// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	xerrors "khata-service/internal/pkg/errors"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// Conflict sends a 409 Conflict response.
func Conflict(c *gin.Context, message string, err error) {
	Error(c, http.StatusConflict, message, err)
}

// FromError maps a service error onto the HTTP status it stands for and
// sends it. fallback is the message used for unclassified errors.
func FromError(c *gin.Context, err error, fallback string) {
	switch {
	case xerrors.Is(err, xerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, xerrors.MessageOrDefault(err, "invalid input"), nil)
	case xerrors.Is(err, xerrors.ErrUnauthorized), xerrors.Is(err, xerrors.ErrSessionExpired):
		Error(c, http.StatusUnauthorized, xerrors.MessageOrDefault(err, "unauthorized"), nil)
	case xerrors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, xerrors.MessageOrDefault(err, "not found"), nil)
	case xerrors.Is(err, xerrors.ErrCustomerMissing):
		Error(c, http.StatusNotFound, xerrors.MessageOrDefault(err, "customer not found"), nil)
	case xerrors.Is(err, xerrors.ErrDuplicateEntry):
		Error(c, http.StatusConflict, xerrors.MessageOrDefault(err, "already exists"), nil)
	case xerrors.Is(err, xerrors.ErrVersionConflict):
		Error(c, http.StatusConflict, xerrors.MessageOrDefault(err, "record changed on another device"), nil)
	default:
		Error(c, http.StatusInternalServerError, fallback, nil)
	}
}
