package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"property-sales-backend/internal/services/matching"
	"property-sales-backend/internal/services/statement"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		typ    string
	}{
		{invalidField("amount", "must be positive"), http.StatusBadRequest, "validation_error"},
		{ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{statement.ErrBuyerNotFound, http.StatusNotFound, "not_found"},
		{matching.ErrBuyerMismatch, http.StatusConflict, "conflict"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		status, payload := mapError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.typ, payload.Type, tt.err.Error())
	}
}
