package pickups

import (
	"time"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

// ClassifyTiming compares a pickup instant against a resolved cutoff.
// A pickup exactly at the cutoff counts as on time. A nil cutoff means
// the pharmacy has no cutoff that day.
func ClassifyTiming(pickupAtUTC time.Time, cutoffAtUTC *time.Time) enums.TimingStatus {
	if cutoffAtUTC == nil {
		return enums.TimingStatusNoCutoff
	}
	if !pickupAtUTC.After(*cutoffAtUTC) {
		return enums.TimingStatusOnTime
	}
	return enums.TimingStatusLate
}
