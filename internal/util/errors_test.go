package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryableKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Retryable("save stats", cause)

	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRetryable)
	assert.Contains(t, err.Error(), "save stats")
	assert.Nil(t, Retryable("noop", nil))

	assert.True(t, IsRetryable(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.False(t, IsRetryable(ErrWorkoutNotFound))
}

func TestHandleErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{Retryable("finish", errors.New("boom")), http.StatusServiceUnavailable},
		{ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", ErrInvalidAchievement), http.StatusBadRequest},
		{fmt.Errorf("%w: name is required", ErrInvalidProfile), http.StatusBadRequest},
		{ErrNoExercisesCompleted, http.StatusBadRequest},
		{ErrSessionNotInProgress, http.StatusConflict},
		{ErrAccessCodeTaken, http.StatusConflict},
		{ErrAccountInactive, http.StatusForbidden},
		{ErrWorkoutNotVisible, http.StatusForbidden},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestHandleErrorMarksRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleError(c, Retryable("finish", errors.New("boom")))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"retryable":true`)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestParsePage(t *testing.T) {
	page, limit := ParsePage("", "", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = ParsePage("3", "500", 20, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = ParsePage("-1", "abc", 20, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}
