package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// WeeklySchedule maps each weekday onto an optional local cutoff time.
// A missing entry means the pharmacy has no cutoff that day. The zero value
// (empty map or nil) is a schedule with no cutoffs at all.
//
// Stored as jsonb, e.g. {"mon":"15:50","tue":"15:50"}.
type WeeklySchedule map[enums.Weekday]LocalTime

// At returns the cutoff time configured for the given weekday, if any.
func (s WeeklySchedule) At(day enums.Weekday) (LocalTime, bool) {
	if s == nil {
		return LocalTime{}, false
	}
	t, ok := s[day]
	return t, ok
}

// Set assigns a cutoff on the given weekday, replacing any previous value.
func (s WeeklySchedule) Set(day enums.Weekday, t LocalTime) {
	s[day] = t
}

// Clear removes the cutoff on the given weekday.
func (s WeeklySchedule) Clear(day enums.Weekday) {
	delete(s, day)
}

// Value marshals the schedule into its jsonb representation.
func (s WeeklySchedule) Value() (driver.Value, error) {
	for day := range s {
		if !day.IsValid() {
			return nil, fmt.Errorf("weekly schedule: invalid weekday %q", day)
		}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("weekly schedule: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the jsonb representation.
func (s *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = WeeklySchedule{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("weekly schedule: unsupported scan type %T", value)
	}

	decoded := WeeklySchedule{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("weekly schedule: %w", err)
	}
	for day := range decoded {
		if !day.IsValid() {
			return fmt.Errorf("weekly schedule: invalid weekday %q", day)
		}
	}
	*s = decoded
	return nil
}

// GormDataType tells GORM which column type backs the schedule.
func (WeeklySchedule) GormDataType() string {
	return "jsonb"
}
