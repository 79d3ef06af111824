package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// LocalTime is a wall-clock time of day ("HH:MM") in the deployment's civil
// timezone. It carries no date and no zone; callers anchor it onto a local
// calendar day when resolving cutoffs.
type LocalTime struct {
	Hour   int
	Minute int
}

// ParseLocalTime parses "HH:MM" (24h) into a LocalTime.
func ParseLocalTime(value string) (LocalTime, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return LocalTime{}, fmt.Errorf("invalid time of day %q (expected HH:MM): %w", value, err)
	}
	return LocalTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// String formats the time of day as "HH:MM".
func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes the time as its "HH:MM" string form.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseLocalTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
