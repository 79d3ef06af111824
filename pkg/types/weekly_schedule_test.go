package types

import (
	"testing"

	"github.com/gprf24/pickUpLivery/pkg/enums"
)

func TestWeeklyScheduleValueScanRoundTrip(t *testing.T) {
	schedule := WeeklySchedule{
		enums.WeekdayMonday: {Hour: 15, Minute: 50},
		enums.WeekdayFriday: {Hour: 12, Minute: 0},
	}

	val, err := schedule.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded WeeklySchedule
	if err := decoded.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if got, ok := decoded.At(enums.WeekdayMonday); !ok || got.String() != "15:50" {
		t.Fatalf("unexpected monday cutoff %v ok=%v", got, ok)
	}
	if got, ok := decoded.At(enums.WeekdayFriday); !ok || got.String() != "12:00" {
		t.Fatalf("unexpected friday cutoff %v ok=%v", got, ok)
	}
	if _, ok := decoded.At(enums.WeekdaySunday); ok {
		t.Fatal("expected no sunday cutoff")
	}
}

func TestWeeklyScheduleScanNilAndBytes(t *testing.T) {
	var s WeeklySchedule
	if err := s.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if s == nil || len(s) != 0 {
		t.Fatalf("expected empty schedule, got %v", s)
	}

	if err := s.Scan([]byte(`{"tue":"09:30"}`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if got, ok := s.At(enums.WeekdayTuesday); !ok || got.String() != "09:30" {
		t.Fatalf("unexpected tuesday cutoff %v ok=%v", got, ok)
	}
}

func TestWeeklyScheduleRejectsInvalidWeekday(t *testing.T) {
	var s WeeklySchedule
	if err := s.Scan([]byte(`{"monday":"09:30"}`)); err == nil {
		t.Fatal("expected error for unknown weekday key")
	}

	bad := WeeklySchedule{enums.Weekday("noday"): {Hour: 1, Minute: 0}}
	if _, err := bad.Value(); err == nil {
		t.Fatal("expected error for invalid weekday")
	}
}

func TestWeeklyScheduleSetClear(t *testing.T) {
	s := WeeklySchedule{}
	s.Set(enums.WeekdayWednesday, LocalTime{Hour: 16, Minute: 15})
	if got, ok := s.At(enums.WeekdayWednesday); !ok || got.String() != "16:15" {
		t.Fatalf("unexpected wednesday cutoff %v ok=%v", got, ok)
	}
	s.Clear(enums.WeekdayWednesday)
	if _, ok := s.At(enums.WeekdayWednesday); ok {
		t.Fatal("expected cleared wednesday")
	}

	var nilSchedule WeeklySchedule
	if _, ok := nilSchedule.At(enums.WeekdayMonday); ok {
		t.Fatal("expected nil schedule to have no cutoffs")
	}
}
