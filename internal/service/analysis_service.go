package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"habit-persona/internal/domain"
	"habit-persona/internal/metrics"
	"habit-persona/internal/personality"
	"habit-persona/internal/repository"
)

const maxSimilarProfiles = 50

// AnalysisService obtiene los datos del usuario, ejecuta el motor y publica el perfil resultante.
// El motor es puro; este servicio es el unico que toca almacenamiento, cache y notificaciones.
type AnalysisService struct {
	engine     *personality.Engine
	habits     repository.HabitSource
	logs       repository.LogSource
	categories repository.CategorySource
	profiles   repository.ProfileRepository
	lock       AnalysisLock
	cache      ProfileCache
	notifier   ProfileNotifier
	metrics    *metrics.AnalysisMetrics
	logger     *zap.Logger

	inflight singleflight.Group
}

// NewAnalysisService acepta lock, cache, notifier y metrics nulos; usa implementaciones locales o no-op.
func NewAnalysisService(
	logger *zap.Logger,
	engine *personality.Engine,
	habits repository.HabitSource,
	logs repository.LogSource,
	categories repository.CategorySource,
	profiles repository.ProfileRepository,
	lock AnalysisLock,
	cache ProfileCache,
	notifier ProfileNotifier,
	m *metrics.AnalysisMetrics,
) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = personality.NewEngine(personality.DefaultOptions())
	}
	if lock == nil {
		lock = NewMemoryAnalysisLock(0)
	}
	if cache == nil {
		cache = noopProfileCache{}
	}
	if notifier == nil {
		notifier = noopProfileNotifier{}
	}
	return &AnalysisService{
		engine:     engine,
		habits:     habits,
		logs:       logs,
		categories: categories,
		profiles:   profiles,
		lock:       lock,
		cache:      cache,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
	}
}

type analysisInputs struct {
	habits     []domain.Habit
	logs       []domain.HabitLog
	categories []domain.Category
}

func (s *AnalysisService) fetch(ctx context.Context, userID string, asOf time.Time) (analysisInputs, error) {
	var in analysisInputs
	var err error

	if in.habits, err = s.habits.GetActiveHabits(ctx, userID); err != nil {
		return in, &DataAccessError{Source: "habits", Err: err}
	}
	window := personality.LogWindow(asOf, s.engine.WindowDays())
	if in.logs, err = s.logs.GetLogs(ctx, userID, window); err != nil {
		return in, &DataAccessError{Source: "logs", Err: err}
	}
	if in.categories, err = s.categories.GetCategories(ctx, userID); err != nil {
		return in, &DataAccessError{Source: "categories", Err: err}
	}
	return in, nil
}

// CheckEligibility evalua solo los requisitos de datos, sin lock ni persistencia.
func (s *AnalysisService) CheckEligibility(ctx context.Context, userID string, asOf time.Time) (domain.AnalysisEligibility, error) {
	in, err := s.fetch(ctx, userID, asOf)
	if err != nil {
		return domain.AnalysisEligibility{}, err
	}
	return s.engine.CheckEligibility(in.habits, in.logs, in.categories, asOf), nil
}

// RunAnalysis ejecuta el pipeline completo para userID.
// Llamadas concurrentes del mismo usuario y el mismo dia asOf comparten una sola corrida;
// entre instancias, ErrAnalysisInProgress indica que otra tiene el lock.
// La corrida compartida no depende del ctx de quien la inicio: cancelar una llamada
// solo libera a ese llamador.
func (s *AnalysisService) RunAnalysis(ctx context.Context, userID string, asOf time.Time) (personality.AnalysisResult, error) {
	start := time.Now()
	runCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(inflightKey(userID, asOf), func() (interface{}, error) {
		return s.runLocked(runCtx, userID, asOf)
	})

	var (
		v   interface{}
		err error
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-ch:
		v, err = res.Val, res.Err
		if res.Shared {
			s.logger.Debug("analysis run shared", zap.String("user_id", userID))
		}
	}

	outcome := metrics.OutcomeCompleted
	var result personality.AnalysisResult
	switch {
	case errors.Is(err, ErrAnalysisInProgress):
		outcome = metrics.OutcomeInProgress
	case err != nil:
		outcome = metrics.OutcomeError
	default:
		result = v.(personality.AnalysisResult)
		if !result.Eligible() {
			outcome = metrics.OutcomeIneligible
		}
	}
	s.metrics.ObserveRun(outcome, time.Since(start))
	return result, err
}

// inflightKey agrupa por usuario y dia de analisis; asOf distintos nunca comparten resultado.
func inflightKey(userID string, asOf time.Time) string {
	return userID + "|" + domain.DayOf(asOf).Format("2006-01-02")
}

func (s *AnalysisService) runLocked(ctx context.Context, userID string, asOf time.Time) (personality.AnalysisResult, error) {
	token, acquired, err := s.lock.Acquire(ctx, userID)
	switch {
	case err != nil:
		// Sin lock distribuido se sigue: singleflight ya evita corridas duplicadas locales.
		s.logger.Warn("analysis lock unavailable", zap.String("user_id", userID), zap.Error(err))
	case !acquired:
		return personality.AnalysisResult{}, ErrAnalysisInProgress
	default:
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), userID, token); err != nil {
				s.logger.Warn("analysis lock release failed", zap.String("user_id", userID), zap.Error(err))
			}
		}()
	}

	in, err := s.fetch(ctx, userID, asOf)
	if err != nil {
		s.logger.Error("analysis fetch failed", zap.String("user_id", userID), zap.Error(err))
		return personality.AnalysisResult{}, err
	}

	result := s.engine.Run(userID, in.habits, in.logs, in.categories, asOf)
	for _, w := range result.Warnings {
		s.logger.Warn("degraded habit signal",
			zap.String("user_id", userID),
			zap.String("habit_id", w.HabitID),
			zap.String("kind", string(w.Kind)),
			zap.String("detail", w.Detail),
		)
		s.metrics.CountWarning(string(w.Kind))
	}

	if !result.Eligible() {
		s.logger.Info("analysis skipped: insufficient data",
			zap.String("user_id", userID),
			zap.Int("missing_requirements", len(result.Eligibility.MissingRequirements)),
			zap.Float64("progress", result.Eligibility.Progress),
		)
		return result, nil
	}

	profile := *result.Profile
	if err := s.profiles.Save(ctx, profile); err != nil {
		s.logger.Error("profile save failed", zap.String("user_id", userID), zap.Error(err))
		return personality.AnalysisResult{}, &DataAccessError{Source: "profiles", Err: err}
	}
	s.metrics.CountProfile(string(profile.ConfidenceLevel))

	if err := s.cache.Set(ctx, profile); err != nil {
		s.logger.Warn("profile cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.notifier.ProfileUpdated(ctx, profile); err != nil {
		s.metrics.CountNotifyFailure()
		s.logger.Warn("profile notify failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("profile generated",
		zap.String("user_id", userID),
		zap.String("confidence_level", string(profile.ConfidenceLevel)),
		zap.Int("data_points", profile.DataPointCount),
		zap.String("dominant_trait", string(profile.DominantTrait())),
	)
	return result, nil
}

// LatestProfile lee primero la cache y despues el almacenamiento.
// Si el usuario no tiene perfil el error envuelve pgx.ErrNoRows.
func (s *AnalysisService) LatestProfile(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	cached, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("profile cache get failed", zap.String("user_id", userID), zap.Error(err))
	}
	s.metrics.CountCacheLookup(hit)
	if hit {
		return cached, nil
	}

	profile, err := s.profiles.GetLatestByUserID(ctx, userID)
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("get latest profile for user %s: %w", userID, err)
	}
	if err := s.cache.Set(ctx, profile); err != nil {
		s.logger.Warn("profile cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
	return profile, nil
}

// SimilarProfiles busca los k perfiles de otros usuarios mas cercanos al ultimo perfil de userID.
func (s *AnalysisService) SimilarProfiles(ctx context.Context, userID string, k int) ([]domain.SimilarProfile, error) {
	if k <= 0 {
		k = 5
	}
	if k > maxSimilarProfiles {
		k = maxSimilarProfiles
	}
	latest, err := s.LatestProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	similar, err := s.profiles.FindSimilar(ctx, userID, latest.TraitScores, k)
	if err != nil {
		return nil, fmt.Errorf("find similar profiles: %w", err)
	}
	return similar, nil
}

// AlgorithmVersion es la version con la que este servicio genera perfiles.
func (s *AnalysisService) AlgorithmVersion() string {
	return personality.AlgorithmVersion
}
