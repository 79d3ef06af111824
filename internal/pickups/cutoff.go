package pickups

import (
	"time"

	"github.com/gprf24/pickUpLivery/pkg/enums"
	"github.com/gprf24/pickUpLivery/pkg/types"
)

// ResolveCutoff computes the UTC cutoff instant that applies to a
// pickup happening at nowUTC, given a pharmacy's weekly schedule and
// the application's civil timezone.
//
// The weekday is determined by nowUTC projected into loc, not by the
// UTC date. A schedule without an entry for that weekday yields nil,
// meaning no cutoff applies. Around DST transitions time.Date resolves
// ambiguous or skipped wall-clock times in loc and the result is
// whatever instant that normalization produces.
func ResolveCutoff(schedule types.WeeklySchedule, nowUTC time.Time, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := nowUTC.In(loc)

	lt, ok := schedule.At(enums.WeekdayFromTime(local.Weekday()))
	if !ok {
		return nil
	}

	cutoff := time.Date(local.Year(), local.Month(), local.Day(), lt.Hour, lt.Minute, 0, 0, loc).UTC()
	return &cutoff
}
