package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"habit-persona/internal/domain"
)

// HabitSource entrega los habitos no archivados de un usuario.
// La vida util (ActiveFrom/ActiveUntil) la evalua el motor contra asOf.
type HabitSource interface {
	GetActiveHabits(ctx context.Context, userID string) ([]domain.Habit, error)
}

type PgHabitRepository struct {
	pool *pgxpool.Pool
}

func NewPgHabitRepository(pool *pgxpool.Pool) *PgHabitRepository {
	return &PgHabitRepository{pool: pool}
}

func (r *PgHabitRepository) GetActiveHabits(ctx context.Context, userID string) ([]domain.Habit, error) {
	const query = `
		SELECT id, user_id, name, COALESCE(category_id, ''), schedule_kind, schedule_weekdays, times_per_week,
			kind, target_value, active_from, active_until, is_custom
		FROM habits
		WHERE user_id = $1 AND archived_at IS NULL
		ORDER BY active_from, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	return scanHabits(rows)
}

func scanHabits(rows pgxRows) ([]domain.Habit, error) {
	var habits []domain.Habit
	for rows.Next() {
		var (
			h        domain.Habit
			kind     string
			weekdays []int32
			target   sql.NullFloat64
			until    sql.NullTime
		)
		if err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.Name,
			&h.CategoryID,
			&kind,
			&weekdays,
			&h.Schedule.TimesPerWeek,
			&h.Kind,
			&target,
			&h.ActiveFrom,
			&until,
			&h.IsCustom,
		); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		h.Schedule = scheduleFromRow(kind, weekdays, h.Schedule.TimesPerWeek)
		if target.Valid {
			val := target.Float64
			h.TargetValue = &val
		}
		if until.Valid {
			val := until.Time
			h.ActiveUntil = &val
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return habits, nil
}

// scheduleFromRow no valida: un schedule corrupto llega al motor, que lo reporta como warning.
func scheduleFromRow(kind string, weekdays []int32, timesPerWeek int) domain.Schedule {
	switch domain.ScheduleKind(kind) {
	case domain.ScheduleSpecificWeekdays:
		days := make([]time.Weekday, 0, len(weekdays))
		for _, d := range weekdays {
			days = append(days, time.Weekday(d))
		}
		return domain.WeekdaySchedule(days...)
	case domain.ScheduleTimesPerWeek:
		return domain.TimesPerWeekSchedule(timesPerWeek)
	}
	return domain.Schedule{Kind: domain.ScheduleKind(kind)}
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
