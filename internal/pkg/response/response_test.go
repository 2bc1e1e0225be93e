package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laborhub/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidation("Invalid status"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"precondition", domain.NewPrecondition("PAYMENT_NOT_FOUND", "no payment"), http.StatusBadRequest, "PAYMENT_NOT_FOUND"},
		{"wrapped conflict", fmt.Errorf("create: %w", domain.NewConflict("PAYMENT_EXISTS", "exists")), http.StatusConflict, "PAYMENT_EXISTS"},
		{"not found", domain.NewNotFound("Booking not found."), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", domain.NewForbidden("nope"), http.StatusForbidden, "FORBIDDEN"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestFromError_UnknownIsAttachedForLogging(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errors.New("boom"))
	assert.Len(t, c.Errors, 1)

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	FromError(c2, domain.NewValidation("bad"))
	assert.Empty(t, c2.Errors)
}
