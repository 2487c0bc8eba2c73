package personality

import (
	"fmt"
	"time"

	"habit-persona/internal/domain"
)

// HabitCompletionThreshold es la tasa a partir de la cual un habito cuenta como "consistente".
const HabitCompletionThreshold = 0.5

// CompletionCalculator convierte registros crudos en estadisticas por habito
// respetando el schedule y la vida util de cada habito.
type CompletionCalculator struct{}

// InvalidHabit identifica un habito que no se pudo evaluar.
type InvalidHabit struct {
	HabitID string
	Err     error
}

// ComputeStats calcula la estadistica de un habito en [windowStart, windowEnd].
// Solo devuelve error si el schedule es invalido.
func (CompletionCalculator) ComputeStats(habit domain.Habit, logs []domain.HabitLog, windowStart, windowEnd time.Time) (domain.HabitCompletionStat, error) {
	return computeStats(habit, completedDaysFor(habit.ID, logs), windowStart, windowEnd)
}

// ComputeAll calcula estadisticas para todos los habitos sobre la misma ventana.
// Los habitos con schedule invalido se devuelven aparte y no generan estadistica.
func (CompletionCalculator) ComputeAll(habits []domain.Habit, logs []domain.HabitLog, window domain.DateRange) ([]domain.HabitCompletionStat, []InvalidHabit) {
	byHabit := groupCompletedDays(logs)
	stats := make([]domain.HabitCompletionStat, 0, len(habits))
	var invalid []InvalidHabit
	for _, h := range habits {
		stat, err := computeStats(h, byHabit[h.ID], window.Start, window.End)
		if err != nil {
			invalid = append(invalid, InvalidHabit{HabitID: h.ID, Err: err})
			continue
		}
		stats = append(stats, stat)
	}
	return stats, invalid
}

// Summarize agrega estadisticas: tasa global agrupada y cantidad de habitos sobre el umbral.
func (CompletionCalculator) Summarize(stats []domain.HabitCompletionStat) domain.CompletionSummary {
	var summary domain.CompletionSummary
	for _, s := range stats {
		summary.TotalHabits++
		summary.TotalExpected += s.ExpectedOccurrences
		summary.TotalCompleted += s.CompletedOccurrences
		if s.CompletionRate >= HabitCompletionThreshold {
			summary.HabitsAboveThreshold++
		}
	}
	summary.OverallRate = ratio(summary.TotalCompleted, summary.TotalExpected)
	return summary
}

func computeStats(habit domain.Habit, completedDays map[time.Time]struct{}, windowStart, windowEnd time.Time) (domain.HabitCompletionStat, error) {
	stat := domain.HabitCompletionStat{HabitID: habit.ID}
	if err := habit.Schedule.Validate(); err != nil {
		return stat, fmt.Errorf("habit %s: %w", habit.ID, err)
	}

	start, end, ok := effectiveWindow(habit, windowStart, windowEnd)
	if !ok {
		return stat, nil
	}

	switch habit.Schedule.Kind {
	case domain.ScheduleDaily:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			stat.ExpectedOccurrences++
			if _, done := completedDays[d]; done {
				stat.CompletedOccurrences++
			}
		}
	case domain.ScheduleSpecificWeekdays:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !habit.Schedule.IncludesWeekday(d.Weekday()) {
				continue
			}
			stat.ExpectedOccurrences++
			if _, done := completedDays[d]; done {
				stat.CompletedOccurrences++
			}
		}
	case domain.ScheduleTimesPerWeek:
		stat.ExpectedOccurrences, stat.CompletedOccurrences = countWeekly(habit.Schedule.TimesPerWeek, completedDays, start, end)
	default:
		return stat, fmt.Errorf("habit %s: %w: unhandled kind %q", habit.ID, domain.ErrInvalidSchedule, habit.Schedule.Kind)
	}

	stat.CompletionRate = ratio(stat.CompletedOccurrences, stat.ExpectedOccurrences)
	return stat, nil
}

// countWeekly agrupa por semana ISO. Cada semana espera n ocurrencias (o los dias
// de esa semana dentro de la ventana, si son menos) y los completados se topan por semana.
func countWeekly(n int, completedDays map[time.Time]struct{}, start, end time.Time) (expected, completed int) {
	type weekKey struct{ year, week int }

	var (
		current    weekKey
		daysInWeek int
		doneInWeek int
		started    bool
	)
	flush := func() {
		weekExpected := min(n, daysInWeek)
		expected += weekExpected
		completed += min(doneInWeek, weekExpected)
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		y, w := d.ISOWeek()
		key := weekKey{year: y, week: w}
		if started && key != current {
			flush()
			daysInWeek, doneInWeek = 0, 0
		}
		current, started = key, true
		daysInWeek++
		if _, done := completedDays[d]; done {
			doneInWeek++
		}
	}
	if started {
		flush()
	}
	return expected, completed
}

// effectiveWindow intersecta la vida util del habito con la ventana de analisis.
func effectiveWindow(habit domain.Habit, windowStart, windowEnd time.Time) (time.Time, time.Time, bool) {
	start := domain.DayOf(windowStart)
	if from := domain.DayOf(habit.ActiveFrom); from.After(start) {
		start = from
	}
	end := domain.DayOf(windowEnd)
	if habit.ActiveUntil != nil {
		if until := domain.DayOf(*habit.ActiveUntil); until.Before(end) {
			end = until
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func completedDaysFor(habitID string, logs []domain.HabitLog) map[time.Time]struct{} {
	days := make(map[time.Time]struct{})
	for _, l := range logs {
		if l.HabitID == habitID && l.Completed {
			days[domain.DayOf(l.Date)] = struct{}{}
		}
	}
	return days
}

func groupCompletedDays(logs []domain.HabitLog) map[string]map[time.Time]struct{} {
	out := make(map[string]map[time.Time]struct{})
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		days, ok := out[l.HabitID]
		if !ok {
			days = make(map[time.Time]struct{})
			out[l.HabitID] = days
		}
		days[domain.DayOf(l.Date)] = struct{}{}
	}
	return out
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	r := float64(num) / float64(den)
	return clamp(r, 0, 1)
}
