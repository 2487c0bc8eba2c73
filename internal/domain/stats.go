package domain

// HabitCompletionStat resume el cumplimiento de un habito respecto de su propio schedule.
type HabitCompletionStat struct {
	HabitID              string  `json:"habit_id"`
	ExpectedOccurrences  int     `json:"expected_occurrences"`
	CompletedOccurrences int     `json:"completed_occurrences"`
	CompletionRate       float64 `json:"completion_rate"`
}

// CompletionSummary agrega las estadisticas de todos los habitos analizados.
type CompletionSummary struct {
	TotalHabits          int     `json:"total_habits"`
	HabitsAboveThreshold int     `json:"habits_above_threshold"`
	TotalExpected        int     `json:"total_expected"`
	TotalCompleted       int     `json:"total_completed"`
	OverallRate          float64 `json:"overall_rate"`
}

// ConsistencyRatio es la fraccion de habitos sobre el umbral; 0 si no hay habitos.
func (s CompletionSummary) ConsistencyRatio() float64 {
	if s.TotalHabits == 0 {
		return 0
	}
	return float64(s.HabitsAboveThreshold) / float64(s.TotalHabits)
}
