package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"habit-persona/internal/domain"
)

// CategorySource entrega las categorias visibles para un usuario: las predefinidas y las propias.
type CategorySource interface {
	GetCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

func (r *PgCategoryRepository) GetCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	const query = `
		SELECT id, COALESCE(user_id, ''), name, is_predefined
		FROM habit_categories
		WHERE user_id = $1 OR is_predefined
		ORDER BY is_predefined DESC, name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.IsPredefined); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
