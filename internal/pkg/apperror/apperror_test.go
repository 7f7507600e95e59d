package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatching(t *testing.T) {
	sentinel := NewField(http.StatusBadRequest, "schedule_time", "cannot schedule in the past")

	wrapped := fmt.Errorf("create appointment: %w", sentinel.WithErr(errors.New("db says no")))

	assert.True(t, errors.Is(wrapped, sentinel))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "schedule_time", appErr.Field)
	assert.EqualError(t, appErr.Err, "db says no")
}

func TestAppErrorMessage(t *testing.T) {
	assert.Equal(t, "not found", New(http.StatusNotFound, "not found").Error())
	assert.Equal(t, "status: bad", NewField(http.StatusBadRequest, "status", "bad").Error())
	assert.False(t, errors.Is(New(http.StatusNotFound, "a"), New(http.StatusNotFound, "b")))
}
