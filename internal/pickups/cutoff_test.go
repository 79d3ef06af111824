package pickups

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gprf24/pickUpLivery/pkg/enums"
	"github.com/gprf24/pickUpLivery/pkg/types"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func TestResolveCutoffMondaySchedule(t *testing.T) {
	loc := berlin(t)
	schedule := types.WeeklySchedule{
		enums.WeekdayMonday: {Hour: 15, Minute: 50},
	}

	// 2026-01-05 is a Monday. 14:00 UTC is 15:00 Berlin (CET).
	now := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)

	cutoff := ResolveCutoff(schedule, now, loc)
	require.NotNil(t, cutoff)

	want := time.Date(2026, 1, 5, 15, 50, 0, 0, loc).UTC()
	assert.True(t, cutoff.Equal(want), "cutoff = %v, want %v", cutoff, want)
	assert.Equal(t, time.UTC, cutoff.Location())
}

func TestResolveCutoffNoEntryForWeekday(t *testing.T) {
	loc := berlin(t)
	schedule := types.WeeklySchedule{
		enums.WeekdayMonday: {Hour: 15, Minute: 50},
	}

	// 2026-01-06 is a Tuesday.
	now := time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC)

	assert.Nil(t, ResolveCutoff(schedule, now, loc))
}

func TestResolveCutoffWeekdayFollowsLocalClock(t *testing.T) {
	loc := berlin(t)
	schedule := types.WeeklySchedule{
		enums.WeekdayMonday: {Hour: 10, Minute: 0},
	}

	// 2026-07-05 23:30 UTC is still Sunday in UTC but already Monday
	// 01:30 in Berlin (CEST, UTC+2). The Monday entry must apply.
	now := time.Date(2026, 7, 5, 23, 30, 0, 0, time.UTC)

	cutoff := ResolveCutoff(schedule, now, loc)
	require.NotNil(t, cutoff)

	want := time.Date(2026, 7, 6, 10, 0, 0, 0, loc).UTC()
	assert.True(t, cutoff.Equal(want))
}

func TestResolveCutoffEmptySchedule(t *testing.T) {
	assert.Nil(t, ResolveCutoff(types.WeeklySchedule{}, time.Now().UTC(), berlin(t)))
	assert.Nil(t, ResolveCutoff(nil, time.Now().UTC(), berlin(t)))
}

func TestResolveCutoffNilLocationFallsBackToUTC(t *testing.T) {
	schedule := types.WeeklySchedule{
		enums.WeekdayMonday: {Hour: 12, Minute: 0},
	}
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	cutoff := ResolveCutoff(schedule, now, nil)
	require.NotNil(t, cutoff)
	assert.True(t, cutoff.Equal(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)))
}

func TestResolveCutoffDSTSpringForward(t *testing.T) {
	loc := berlin(t)
	// Berlin skips 02:00-03:00 on 2026-03-29. A 02:30 cutoff lands in
	// the gap and normalizes to a real instant instead of failing.
	schedule := types.WeeklySchedule{
		enums.WeekdaySunday: {Hour: 2, Minute: 30},
	}
	now := time.Date(2026, 3, 29, 8, 0, 0, 0, time.UTC)

	cutoff := ResolveCutoff(schedule, now, loc)
	require.NotNil(t, cutoff)
	assert.False(t, cutoff.IsZero())
}
