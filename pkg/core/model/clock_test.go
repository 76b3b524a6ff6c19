package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/shiftsignup/pkg/db"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"13:45", 825},
		{"23:59", 1439},
		{"24:00", 1440},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, input := range []string{"", "9:00", "09:0", "0900", "ab:cd", "25:00", "24:01", "12:60", "-1:00", "+9:00", "-0:30", "09:+5", " 9:00", "０9:00"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseClock(input)
			assert.True(t, errors.Is(err, ErrInvalidTimeslot), "expected ErrInvalidTimeslot for %q, got %v", input, err)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "24:00", FormatClock(1440))
}

func TestParseRange(t *testing.T) {
	start, end, err := ParseRange("09:00", "13:00")
	require.NoError(t, err)
	assert.Equal(t, 540, start)
	assert.Equal(t, 780, end)

	_, _, err = ParseRange("13:00", "13:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("14:00", "13:00")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = ParseRange("bad", "13:00")
	assert.ErrorIs(t, err, ErrInvalidTimeslot)
}

func TestValidateTimeslot(t *testing.T) {
	valid := db.Timeslot{ShiftNumber: 1, StartTime: "09:00", EndTime: "11:00", Capacity: 3}
	assert.NoError(t, ValidateTimeslot(valid))

	reversed := valid
	reversed.EndTime = "08:00"
	assert.ErrorIs(t, ValidateTimeslot(reversed), ErrInvalidRange)

	noCapacity := valid
	noCapacity.Capacity = 0
	assert.ErrorIs(t, ValidateTimeslot(noCapacity), ErrInvalidTimeslot)

	noShift := valid
	noShift.ShiftNumber = 0
	assert.ErrorIs(t, ValidateTimeslot(noShift), ErrInvalidTimeslot)
}

func TestMoveShift(t *testing.T) {
	ordered := []db.Timeslot{
		{ID: "a", ShiftNumber: 1},
		{ID: "b", ShiftNumber: 2},
		{ID: "c", ShiftNumber: 3},
	}
	ids := func(slots []db.Timeslot) []string {
		var out []string
		for i, ts := range slots {
			assert.Equal(t, i+1, ts.ShiftNumber)
			out = append(out, ts.ID)
		}
		return out
	}

	got, err := MoveShift(ordered, "c", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))

	got, err = MoveShift(ordered, "a", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))

	got, err = MoveShift(ordered, "b", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))

	assert.Equal(t, "a", ordered[0].ID, "input must not be reordered")

	_, err = MoveShift(ordered, "a", 4)
	assert.ErrorIs(t, err, ErrInvalidTimeslot)
	_, err = MoveShift(ordered, "a", 0)
	assert.ErrorIs(t, err, ErrInvalidTimeslot)
	_, err = MoveShift(ordered, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
