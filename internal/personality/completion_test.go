package personality

import (
	"errors"
	"testing"
	"time"

	"habit-persona/internal/domain"
)

func TestComputeStatsDailyFullWeek(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Walk", "c1", domain.DailySchedule(), true)
	logs := completedLogs("h1", 0, 1, 2, 4, 6)

	stat, err := calc.ComputeStats(h, logs, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 7 || stat.CompletedOccurrences != 5 {
		t.Fatalf("expected 5/7, got %d/%d", stat.CompletedOccurrences, stat.ExpectedOccurrences)
	}
	if stat.CompletionRate != 5.0/7.0 {
		t.Fatalf("expected rate 5/7, got %v", stat.CompletionRate)
	}
}

func TestComputeStatsIgnoresDaysOutsideLifetime(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Walk", "c1", domain.DailySchedule(), true)
	h.ActiveFrom = day(2)
	until := day(5)
	h.ActiveUntil = &until

	// Registros fuera de [dia 2, dia 5] no suman ni al numerador ni al denominador.
	logs := completedLogs("h1", allDays()...)
	stat, err := calc.ComputeStats(h, logs, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 4 {
		t.Fatalf("expected 4 expected occurrences, got %d", stat.ExpectedOccurrences)
	}
	if stat.CompletedOccurrences != 4 || stat.CompletionRate != 1 {
		t.Fatalf("expected 4 completed at rate 1, got %d at %v", stat.CompletedOccurrences, stat.CompletionRate)
	}
}

func TestComputeStatsSpecificWeekdaysTwoWeeks(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Swim", "c1", domain.WeekdaySchedule(time.Monday, time.Wednesday, time.Friday), true)

	// Lunes, miercoles y viernes de dos semanas, mas ruido en martes, jueves y fin de semana.
	logs := completedLogs("h1", 0, 2, 4, 7, 9, 11)
	logs = append(logs, completedLogs("h1", 1, 3, 5, 6, 8, 10, 12, 13)...)

	stat, err := calc.ComputeStats(h, logs, weekStart, weekStart.AddDate(0, 0, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 6 {
		t.Fatalf("expected 6 expected occurrences, got %d", stat.ExpectedOccurrences)
	}
	if stat.CompletedOccurrences != 6 || stat.CompletionRate != 1.0 {
		t.Fatalf("expected rate 1.0 with 6 completed, got %v with %d", stat.CompletionRate, stat.CompletedOccurrences)
	}
}

func TestComputeStatsTimesPerWeekCapsWithinWeek(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Yoga", "c1", domain.TimesPerWeekSchedule(3), true)
	logs := completedLogs("h1", 0, 1, 2, 3, 4)

	stat, err := calc.ComputeStats(h, logs, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 3 {
		t.Fatalf("expected 3 expected occurrences, got %d", stat.ExpectedOccurrences)
	}
	if stat.CompletedOccurrences != 3 {
		t.Fatalf("expected completions capped at 3, got %d", stat.CompletedOccurrences)
	}
}

func TestComputeStatsTimesPerWeekNoRollover(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Yoga", "c1", domain.TimesPerWeekSchedule(3), true)
	// Cinco en la primera semana, uno en la segunda: el excedente no pasa a la semana siguiente.
	logs := completedLogs("h1", 0, 1, 2, 3, 4, 8)

	stat, err := calc.ComputeStats(h, logs, weekStart, weekStart.AddDate(0, 0, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 6 || stat.CompletedOccurrences != 4 {
		t.Fatalf("expected 4/6, got %d/%d", stat.CompletedOccurrences, stat.ExpectedOccurrences)
	}
}

func TestComputeStatsTimesPerWeekPartialWeek(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Yoga", "c1", domain.TimesPerWeekSchedule(3), true)

	stat, err := calc.ComputeStats(h, completedLogs("h1", 5), day(5), day(6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 2 || stat.CompletedOccurrences != 1 {
		t.Fatalf("expected 1/2 for a two-day partial week, got %d/%d", stat.CompletedOccurrences, stat.ExpectedOccurrences)
	}
}

func TestComputeStatsNotActiveInWindow(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Walk", "c1", domain.DailySchedule(), true)
	h.ActiveFrom = weekEnd.AddDate(0, 0, 3)

	stat, err := calc.ComputeStats(h, completedLogs("h1", allDays()...), weekStart, weekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.ExpectedOccurrences != 0 || stat.CompletedOccurrences != 0 || stat.CompletionRate != 0 {
		t.Fatalf("expected empty stat, got %+v", stat)
	}
}

func TestComputeStatsCountsDistinctCompletedDays(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Water", "c1", domain.DailySchedule(), true)
	logs := completedLogs("h1", 0, 0, 0)
	logs = append(logs, missedLogs("h1", 1, 2)...)
	logs = append(logs, domain.HabitLog{HabitID: "other", Date: day(3), Completed: true})

	stat, err := calc.ComputeStats(h, logs, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.CompletedOccurrences != 1 {
		t.Fatalf("expected duplicate logs on one day to count once, got %d", stat.CompletedOccurrences)
	}
}

func TestComputeStatsInvalidSchedule(t *testing.T) {
	calc := CompletionCalculator{}
	h := habit("h1", "Walk", "c1", domain.Schedule{Kind: "monthly"}, true)

	_, err := calc.ComputeStats(h, nil, weekStart, weekEnd)
	if !errors.Is(err, domain.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestComputeAllAndSummarize(t *testing.T) {
	calc := CompletionCalculator{}
	habits := []domain.Habit{
		habit("h1", "Walk", "c1", domain.DailySchedule(), true),
		habit("h2", "Stretch", "c1", domain.DailySchedule(), true),
		habit("h3", "Broken", "c1", domain.Schedule{Kind: "hourly"}, true),
	}
	logs := append(completedLogs("h1", allDays()...), completedLogs("h2", 0, 1)...)

	stats, invalid := calc.ComputeAll(habits, logs, domain.DateRange{Start: weekStart, End: weekEnd})
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats, got %d", len(stats))
	}
	if len(invalid) != 1 || invalid[0].HabitID != "h3" {
		t.Fatalf("expected h3 reported invalid, got %+v", invalid)
	}

	summary := calc.Summarize(stats)
	if summary.TotalHabits != 2 || summary.HabitsAboveThreshold != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.OverallRate != 9.0/14.0 {
		t.Fatalf("expected pooled rate 9/14, got %v", summary.OverallRate)
	}
	if summary.ConsistencyRatio() != 0.5 {
		t.Fatalf("expected consistency 0.5, got %v", summary.ConsistencyRatio())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := CompletionCalculator{}.Summarize(nil)
	if summary.OverallRate != 0 || summary.ConsistencyRatio() != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
