package personality

import (
	"time"

	"habit-persona/internal/domain"
)

// 2024-03-04 es lunes; 2024-03-10 domingo (misma semana ISO).
var (
	weekStart = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	weekEnd   = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
)

func day(offset int) time.Time {
	return weekStart.AddDate(0, 0, offset)
}

func habit(id, name, categoryID string, schedule domain.Schedule, custom bool) domain.Habit {
	return domain.Habit{
		ID:         id,
		UserID:     "user-1",
		Name:       name,
		CategoryID: categoryID,
		Schedule:   schedule,
		Kind:       domain.HabitKindBinary,
		ActiveFrom: weekStart,
		IsCustom:   custom,
	}
}

func completedLogs(habitID string, offsets ...int) []domain.HabitLog {
	out := make([]domain.HabitLog, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, domain.HabitLog{HabitID: habitID, Date: day(o), Completed: true})
	}
	return out
}

func missedLogs(habitID string, offsets ...int) []domain.HabitLog {
	out := make([]domain.HabitLog, 0, len(offsets))
	for _, o := range offsets {
		out = append(out, domain.HabitLog{HabitID: habitID, Date: day(o), Completed: false})
	}
	return out
}

func allDays() []int {
	return []int{0, 1, 2, 3, 4, 5, 6}
}

type scenario struct {
	habits     []domain.Habit
	logs       []domain.HabitLog
	categories []domain.Category
	asOf       time.Time
}

// scenarioA: 5 habitos activos en 3 categorias, 7 dias con registros,
// 3 categorias propias, 3 habitos propios y 40% de cumplimiento (14/35).
func scenarioA() scenario {
	categories := []domain.Category{
		{ID: "cat-fit", Name: "Fitness"},
		{ID: "cat-learn", Name: "Learning"},
		{ID: "cat-mind", Name: "Mindfulness"},
		{ID: "cat-social", Name: "Social", IsPredefined: true},
	}
	habits := []domain.Habit{
		habit("h-run", "Morning run", "cat-fit", domain.DailySchedule(), true),
		habit("h-gym", "Gym session", "cat-fit", domain.DailySchedule(), true),
		habit("h-read", "Read 20 pages", "cat-learn", domain.DailySchedule(), true),
		habit("h-meditate", "Meditate", "cat-mind", domain.DailySchedule(), false),
		habit("h-breathe", "Breathing exercise", "cat-mind", domain.DailySchedule(), false),
	}
	var logs []domain.HabitLog
	logs = append(logs, completedLogs("h-run", allDays()...)...)
	logs = append(logs, completedLogs("h-read", allDays()...)...)
	logs = append(logs, missedLogs("h-gym", allDays()...)...)
	return scenario{habits: habits, logs: logs, categories: categories, asOf: weekEnd.Add(20 * time.Hour)}
}

func floatEquals(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
