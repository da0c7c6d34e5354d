package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	capErr := NewCapacityError("staging", 5)
	assert.ErrorIs(t, capErr, ErrCapacityExceeded)
	assert.EqualError(t, capErr, "staging zone is full (maximum 5 items)")
	assert.EqualError(t, NewCapacityError("goals", 100), "maximum of 100 goals allowed")

	wrapped := fmt.Errorf("create task: %w", NewNotFoundError("goal", "g1"))
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrValidation)

	assert.ErrorIs(t, NewValidationError("quadrant", "invalid"), ErrValidation)
	assert.EqualError(t, NewValidationError("", "bad input"), "bad input")
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{NewCapacityError("staging", 5), http.StatusConflict},
		{NewNotFoundError("task", "t1"), http.StatusNotFound},
		{NewValidationError("title", "required"), http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

func TestPageResponse(t *testing.T) {
	page := NewPageResponse([]int{1, 2}, 5, 2, 0, 2)
	assert.True(t, page.HasMore)

	page = NewPageResponse([]int{5}, 5, 2, 4, 1)
	assert.False(t, page.HasMore)
}
