package enums

import (
	"fmt"
	"time"
)

// Weekday is the closed weekday enumeration used to key weekly cutoff
// schedules, Monday first.
type Weekday string

const (
	WeekdayMonday    Weekday = "mon"
	WeekdayTuesday   Weekday = "tue"
	WeekdayWednesday Weekday = "wed"
	WeekdayThursday  Weekday = "thu"
	WeekdayFriday    Weekday = "fri"
	WeekdaySaturday  Weekday = "sat"
	WeekdaySunday    Weekday = "sun"
)

// Weekdays lists all weekdays in schedule order (Monday..Sunday).
var Weekdays = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
	WeekdaySunday,
}

// String implements fmt.Stringer.
func (w Weekday) String() string {
	return string(w)
}

// IsValid reports whether the value is a known Weekday.
func (w Weekday) IsValid() bool {
	for _, candidate := range Weekdays {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWeekday converts raw input into a Weekday.
func ParseWeekday(value string) (Weekday, error) {
	for _, candidate := range Weekdays {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid weekday %q", value)
}

// WeekdayFromTime maps the standard library weekday onto the schedule key.
func WeekdayFromTime(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return WeekdayMonday
	case time.Tuesday:
		return WeekdayTuesday
	case time.Wednesday:
		return WeekdayWednesday
	case time.Thursday:
		return WeekdayThursday
	case time.Friday:
		return WeekdayFriday
	case time.Saturday:
		return WeekdaySaturday
	default:
		return WeekdaySunday
	}
}
