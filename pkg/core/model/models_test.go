package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttendanceStatus(t *testing.T) {
	for _, raw := range []string{"PRESENT", "LATE", "LEFT_EARLY", "NO_SHOW"} {
		status, err := ParseAttendanceStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, AttendanceStatus(raw), status)
	}

	for _, raw := range []string{"", "present", "ABSENT", "LEFT EARLY"} {
		_, err := ParseAttendanceStatus(raw)
		assert.ErrorIs(t, err, ErrInvalidStatus, raw)
	}
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleVolunteer.IsValid())
	assert.False(t, Role("parent").IsValid())
}

func TestBatchError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&BatchError{Op: "create series", Completed: 2, Total: 5, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create series: completed 2 of 5 steps: connection reset", err.Error())

	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))
	assert.Equal(t, 2, batchErr.Completed)
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("timeslot", "ts-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "timeslot ts-1: not found", err.Error())
}
