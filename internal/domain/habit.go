package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidSchedule se devuelve cuando un schedule no pertenece a los tipos conocidos
// o sus parametros no son coherentes.
var ErrInvalidSchedule = errors.New("invalid habit schedule")

// ScheduleKind es la etiqueta del union cerrado de schedules.
type ScheduleKind string

const (
	ScheduleDaily            ScheduleKind = "daily"
	ScheduleSpecificWeekdays ScheduleKind = "specific_weekdays"
	ScheduleTimesPerWeek     ScheduleKind = "times_per_week"
)

// Schedule describe cuando se espera un habito. Solo uno de Weekdays/TimesPerWeek
// tiene sentido segun Kind; usar los constructores en lugar del literal.
type Schedule struct {
	Kind         ScheduleKind   `json:"kind"`
	Weekdays     []time.Weekday `json:"weekdays,omitempty"`
	TimesPerWeek int            `json:"times_per_week,omitempty"`
}

func DailySchedule() Schedule {
	return Schedule{Kind: ScheduleDaily}
}

// WeekdaySchedule deduplica y ordena los dias recibidos.
func WeekdaySchedule(days ...time.Weekday) Schedule {
	seen := make(map[time.Weekday]struct{}, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return Schedule{Kind: ScheduleSpecificWeekdays, Weekdays: out}
}

func TimesPerWeekSchedule(n int) Schedule {
	return Schedule{Kind: ScheduleTimesPerWeek, TimesPerWeek: n}
}

// Validate comprueba que el schedule sea uno de los tipos conocidos y con parametros validos.
func (s Schedule) Validate() error {
	switch s.Kind {
	case ScheduleDaily:
		return nil
	case ScheduleSpecificWeekdays:
		if len(s.Weekdays) == 0 {
			return fmt.Errorf("%w: empty weekday set", ErrInvalidSchedule)
		}
		for _, d := range s.Weekdays {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, d)
			}
		}
		return nil
	case ScheduleTimesPerWeek:
		if s.TimesPerWeek < 1 || s.TimesPerWeek > 7 {
			return fmt.Errorf("%w: times per week %d out of range", ErrInvalidSchedule, s.TimesPerWeek)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s.Kind)
	}
}

// IsFlexible indica si el schedule no es diario.
func (s Schedule) IsFlexible() bool {
	return s.Kind != ScheduleDaily
}

// IncludesWeekday indica si el dia pertenece al conjunto de un schedule specific_weekdays.
func (s Schedule) IncludesWeekday(d time.Weekday) bool {
	for _, w := range s.Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// HabitKind distingue habitos de si/no de habitos con valor numerico.
type HabitKind string

const (
	HabitKindBinary  HabitKind = "binary"
	HabitKindNumeric HabitKind = "numeric"
)

// Habit es una foto inmutable del habito durante una corrida de analisis.
type Habit struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	CategoryID  string     `json:"category_id"`
	Schedule    Schedule   `json:"schedule"`
	Kind        HabitKind  `json:"kind"`
	TargetValue *float64   `json:"target_value,omitempty"`
	ActiveFrom  time.Time  `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until,omitempty"`
	IsCustom    bool       `json:"is_custom"`
}

// IsActiveOn indica si el dia cae dentro de la vida util del habito (extremos inclusive).
func (h Habit) IsActiveOn(day time.Time) bool {
	d := DayOf(day)
	if d.Before(DayOf(h.ActiveFrom)) {
		return false
	}
	if h.ActiveUntil != nil && d.After(DayOf(*h.ActiveUntil)) {
		return false
	}
	return true
}

// DayOf trunca un instante a su dia calendario en UTC.
// La normalizacion de zona horaria es responsabilidad del llamador.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
