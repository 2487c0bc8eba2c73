package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"habit-persona/internal/domain"
)

// ProfileSink persiste perfiles generados. Cada corrida inserta una fila nueva.
type ProfileSink interface {
	Save(ctx context.Context, profile domain.PersonalityProfile) error
}

// ProfileRepository agrega las lecturas usadas por la API.
type ProfileRepository interface {
	ProfileSink
	GetLatestByUserID(ctx context.Context, userID string) (domain.PersonalityProfile, error)
	FindSimilar(ctx context.Context, userID string, traits domain.TraitScores, k int) ([]domain.SimilarProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) Save(ctx context.Context, profile domain.PersonalityProfile) error {
	const query = `
		INSERT INTO personality_profiles (
			id, user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			trait_vector, confidence_level, confidence_score, data_point_count, algorithm_version, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	s := profile.TraitScores
	_, err := r.pool.Exec(ctx, query,
		uuid.NewString(),
		profile.UserID,
		s.Openness,
		s.Conscientiousness,
		s.Extraversion,
		s.Agreeableness,
		s.Neuroticism,
		pgvector.NewVector(s.Vector()),
		string(profile.ConfidenceLevel),
		profile.ConfidenceScore,
		profile.DataPointCount,
		profile.AlgorithmVersion,
		profile.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetLatestByUserID devuelve pgx.ErrNoRows si el usuario nunca fue analizado.
func (r *PgProfileRepository) GetLatestByUserID(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	const query = `
		SELECT user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			confidence_level, confidence_score, data_point_count, algorithm_version, generated_at
		FROM personality_profiles
		WHERE user_id = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`
	var p domain.PersonalityProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(profileDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersonalityProfile{}, err
	}
	return p, err
}

// FindSimilar busca el ultimo perfil de otros usuarios mas cercano por distancia euclidea (<->).
func (r *PgProfileRepository) FindSimilar(ctx context.Context, userID string, traits domain.TraitScores, k int) ([]domain.SimilarProfile, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			confidence_level, confidence_score, data_point_count, algorithm_version, generated_at,
			trait_vector <-> $2 AS distance
		FROM (
			SELECT DISTINCT ON (user_id) *
			FROM personality_profiles
			WHERE user_id <> $1
			ORDER BY user_id, generated_at DESC
		) latest
		ORDER BY distance
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, pgvector.NewVector(traits.Vector()), k)
	if err != nil {
		return nil, fmt.Errorf("query similar profiles: %w", err)
	}
	defer rows.Close()

	return scanSimilar(rows)
}

func scanSimilar(rows pgxRows) ([]domain.SimilarProfile, error) {
	var out []domain.SimilarProfile
	for rows.Next() {
		var s domain.SimilarProfile
		dest := append(profileDest(&s.Profile), &s.Distance)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan similar profile: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func profileDest(p *domain.PersonalityProfile) []interface{} {
	return []interface{}{
		&p.UserID,
		&p.TraitScores.Openness,
		&p.TraitScores.Conscientiousness,
		&p.TraitScores.Extraversion,
		&p.TraitScores.Agreeableness,
		&p.TraitScores.Neuroticism,
		&p.ConfidenceLevel,
		&p.ConfidenceScore,
		&p.DataPointCount,
		&p.AlgorithmVersion,
		&p.GeneratedAt,
	}
}
