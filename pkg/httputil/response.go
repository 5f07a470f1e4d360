package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response with 201
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps the application error taxonomy onto HTTP statuses.
// Validation failures are reported with the offending field names so the
// caller can re-present the form without clearing it.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"
	var fields []string

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		fields = appErr.Fields
		switch appErr.Code {
		case apperrors.ErrValidation:
			statusCode = http.StatusBadRequest
		case apperrors.ErrAuthRequired:
			statusCode = http.StatusUnauthorized
		case apperrors.ErrRecordNotFound, apperrors.ErrNotFound:
			statusCode = http.StatusNotFound
		case apperrors.ErrPersistence:
			statusCode = http.StatusBadGateway
		}
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    statusCode,
			Message: message,
			Fields:  fields,
		},
	})
}
