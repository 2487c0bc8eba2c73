package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"habit-persona/internal/domain"
)

// LogSource entrega los registros de un usuario dentro de un rango de dias.
type LogSource interface {
	GetLogs(ctx context.Context, userID string, window domain.DateRange) ([]domain.HabitLog, error)
}

type PgLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgLogRepository(pool *pgxpool.Pool) *PgLogRepository {
	return &PgLogRepository{pool: pool}
}

// GetLogs deriva Completed del valor registrado cuando existe; si no, usa la marca guardada.
func (r *PgLogRepository) GetLogs(ctx context.Context, userID string, window domain.DateRange) ([]domain.HabitLog, error) {
	const query = `
		SELECT l.habit_id, l.log_date, l.completed, l.value, h.kind, h.target_value
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE h.user_id = $1 AND l.log_date BETWEEN $2 AND $3
		ORDER BY l.log_date, l.habit_id
	`
	rows, err := r.pool.Query(ctx, query, userID, domain.DayOf(window.Start), domain.DayOf(window.End))
	if err != nil {
		return nil, fmt.Errorf("query habit logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows pgxRows) ([]domain.HabitLog, error) {
	var logs []domain.HabitLog
	for rows.Next() {
		var (
			l      domain.HabitLog
			value  sql.NullFloat64
			kind   domain.HabitKind
			target sql.NullFloat64
		)
		if err := rows.Scan(&l.HabitID, &l.Date, &l.Completed, &value, &kind, &target); err != nil {
			return nil, fmt.Errorf("scan habit log: %w", err)
		}
		l.Date = domain.DayOf(l.Date)
		if value.Valid {
			var goal *float64
			if target.Valid {
				goal = &target.Float64
			}
			l.Completed = domain.CompletedFromValue(kind, value.Float64, goal)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
