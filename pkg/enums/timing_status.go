package enums

import "fmt"

// TimingStatus records how a pickup related to its pharmacy's cutoff at the
// instant it was created. The value is frozen onto the pickup row and never
// recomputed afterwards.
type TimingStatus string

const (
	TimingStatusOnTime   TimingStatus = "on_time"
	TimingStatusLate     TimingStatus = "late"
	TimingStatusNoCutoff TimingStatus = "no_cutoff"
)

var validTimingStatuses = []TimingStatus{
	TimingStatusOnTime,
	TimingStatusLate,
	TimingStatusNoCutoff,
}

// String implements fmt.Stringer.
func (t TimingStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TimingStatus.
func (t TimingStatus) IsValid() bool {
	for _, candidate := range validTimingStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTimingStatus converts raw input into a TimingStatus.
func ParseTimingStatus(value string) (TimingStatus, error) {
	for _, candidate := range validTimingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid timing status %q", value)
}
