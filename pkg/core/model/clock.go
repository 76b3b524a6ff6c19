package model

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts a 24-hour "HH:MM" time of day into minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || !isTwoDigits(parts[0]) || !isTwoDigits(parts[1]) {
		return 0, fmt.Errorf("time %q must be in HH:MM format: %w", s, ErrInvalidTimeslot)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q has invalid hours: %w", s, ErrInvalidTimeslot)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("time %q has invalid minutes: %w", s, ErrInvalidTimeslot)
	}

	if hours == 24 && minutes == 0 {
		return minutesPerDay, nil
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q is out of range: %w", s, ErrInvalidTimeslot)
	}

	return hours*60 + minutes, nil
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// FormatClock converts minutes since midnight back into "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseRange parses a start and end time and checks that start is before end
func ParseRange(start, end string) (int, int, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return 0, 0, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return 0, 0, err
	}
	if endMin <= startMin {
		return 0, 0, fmt.Errorf("%s-%s: %w", start, end, ErrInvalidRange)
	}
	return startMin, endMin, nil
}
