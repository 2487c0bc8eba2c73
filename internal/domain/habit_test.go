package domain

import (
	"errors"
	"testing"
	"time"
)

func TestScheduleValidate(t *testing.T) {
	cases := []struct {
		name    string
		s       Schedule
		wantErr bool
	}{
		{name: "daily", s: DailySchedule()},
		{name: "weekdays", s: WeekdaySchedule(time.Monday, time.Wednesday)},
		{name: "empty weekdays", s: WeekdaySchedule(), wantErr: true},
		{name: "times per week", s: TimesPerWeekSchedule(3)},
		{name: "times per week zero", s: TimesPerWeekSchedule(0), wantErr: true},
		{name: "times per week eight", s: TimesPerWeekSchedule(8), wantErr: true},
		{name: "unknown kind", s: Schedule{Kind: "monthly"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidSchedule) {
					t.Fatalf("expected ErrInvalidSchedule, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestWeekdayScheduleDedupesAndSorts(t *testing.T) {
	s := WeekdaySchedule(time.Friday, time.Monday, time.Friday)
	if len(s.Weekdays) != 2 || s.Weekdays[0] != time.Monday || s.Weekdays[1] != time.Friday {
		t.Fatalf("unexpected weekdays %v", s.Weekdays)
	}
	if !s.IncludesWeekday(time.Friday) || s.IncludesWeekday(time.Tuesday) {
		t.Fatalf("unexpected weekday membership")
	}
}

func TestHabitIsActiveOn(t *testing.T) {
	until := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	h := Habit{ActiveFrom: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), ActiveUntil: &until}

	if h.IsActiveOn(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected inactive before active_from")
	}
	if !h.IsActiveOn(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected active on first day regardless of time of day")
	}
	if !h.IsActiveOn(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected active on last day")
	}
	if h.IsActiveOn(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected inactive after active_until")
	}
}

func TestCompletedFromValue(t *testing.T) {
	target := 8.0
	if !CompletedFromValue(HabitKindBinary, 1, nil) {
		t.Fatalf("expected binary positive value to be completed")
	}
	if CompletedFromValue(HabitKindBinary, 0, nil) {
		t.Fatalf("expected binary zero value to be incomplete")
	}
	if CompletedFromValue(HabitKindNumeric, 7.5, &target) {
		t.Fatalf("expected numeric value below target to be incomplete")
	}
	if !CompletedFromValue(HabitKindNumeric, 8, &target) {
		t.Fatalf("expected numeric value at target to be completed")
	}
	if !CompletedFromValue(HabitKindNumeric, 1, nil) {
		t.Fatalf("expected numeric default target of 1")
	}
}

func TestDateRangeDays(t *testing.T) {
	r := DateRange{Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)}
	if r.Days() != 7 {
		t.Fatalf("expected 7 days, got %d", r.Days())
	}
	inverted := DateRange{Start: r.End, End: r.Start}
	if inverted.Days() != 0 {
		t.Fatalf("expected 0 days for inverted range, got %d", inverted.Days())
	}
}
