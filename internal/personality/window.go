package personality

import (
	"time"

	"habit-persona/internal/domain"
)

// DefaultWindowDays acota la ventana de registros analizada.
const DefaultWindowDays = 90

// AnalysisWindow devuelve la ventana que termina en asOf y empieza en el ActiveFrom
// mas antiguo de los habitos, acotada a windowDays dias (0 = sin limite).
func AnalysisWindow(habits []domain.Habit, asOf time.Time, windowDays int) domain.DateRange {
	end := domain.DayOf(asOf)
	start := end
	for _, h := range habits {
		if from := domain.DayOf(h.ActiveFrom); from.Before(start) {
			start = from
		}
	}
	if windowDays > 0 {
		if floor := end.AddDate(0, 0, -(windowDays - 1)); start.Before(floor) {
			start = floor
		}
	}
	return domain.DateRange{Start: start, End: end}
}

// LogWindow es la ventana que el llamador debe pedir a la fuente de registros.
func LogWindow(asOf time.Time, windowDays int) domain.DateRange {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	end := domain.DayOf(asOf)
	return domain.DateRange{Start: end.AddDate(0, 0, -(windowDays - 1)), End: end}
}
