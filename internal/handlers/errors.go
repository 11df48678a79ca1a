package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"property-sales-backend/internal/services/matching"
	service "property-sales-backend/internal/services/reconciliation"
	"property-sales-backend/internal/services/statement"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return v.Field + ": " + v.Message
}

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
)

func invalidField(field, message string) error {
	return ValidationError{Field: field, Message: message}
}

// respondError writes the JSON error envelope for err. Unexpected errors are
// attached to the context so the request logger records them.
func respondError(c *gin.Context, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: payload})
}

func mapError(err error) (int, errorPayload) {
	var vErr ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: vErr.Message,
			Field:   vErr.Field,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, service.ErrMissingColumns):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, statement.ErrBuyerNotFound),
		errors.Is(err, statement.ErrInvoiceNotFound),
		errors.Is(err, matching.ErrPaymentNotFound),
		errors.Is(err, matching.ErrInvoiceNotFound),
		errors.Is(err, service.ErrBatchNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, matching.ErrBuyerMismatch),
		errors.Is(err, matching.ErrInvoiceClosed):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return "resource not found"
	}
	return err.Error()
}
