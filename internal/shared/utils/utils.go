package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

var timeFormat = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidTimeOfDay reports whether s is an HH:MM time of day.
func IsValidTimeOfDay(s string) bool {
	return timeFormat.MatchString(s)
}

// TimeOfDayMinutes converts "HH:MM" to minutes since midnight.
// Returns an error for malformed input.
func TimeOfDayMinutes(s string) (int, error) {
	if !timeFormat.MatchString(s) {
		return 0, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}

	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	return hours*60 + minutes, nil
}

// ParseStringToUUID parses s, returning uuid.Nil for empty or malformed input.
func ParseStringToUUID(s string) uuid.UUID {
	uid, err := uuid.Parse(s)
	if err != nil || s == "" {
		return uuid.Nil
	}
	return uid
}

// UnmarshalTask decodes an asynq task payload into dest.
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal task %s payload: %w", t.Type(), err)
	}
	return nil
}
