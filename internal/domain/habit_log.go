package domain

import "time"

// HabitLog es un registro diario de un habito. Completed ya viene derivado del valor vs. objetivo.
type HabitLog struct {
	HabitID   string    `json:"habit_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
}

// CompletedFromValue deriva si un registro cuenta como completado.
// Binarios: cualquier valor positivo. Numericos: valor >= objetivo (objetivo 1 si no hay).
func CompletedFromValue(kind HabitKind, value float64, target *float64) bool {
	if kind == HabitKindNumeric {
		goal := 1.0
		if target != nil && *target > 0 {
			goal = *target
		}
		return value >= goal
	}
	return value > 0
}

// DateRange es un rango de dias calendario, ambos extremos inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains indica si el dia cae dentro del rango.
func (r DateRange) Contains(day time.Time) bool {
	d := DayOf(day)
	return !d.Before(DayOf(r.Start)) && !d.After(DayOf(r.End))
}

// Days devuelve la cantidad de dias del rango, 0 si esta invertido.
func (r DateRange) Days() int {
	start, end := DayOf(r.Start), DayOf(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
