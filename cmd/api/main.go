package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habit-persona/internal/config"
	"habit-persona/internal/db"
	apihttp "habit-persona/internal/http"
	"habit-persona/internal/metrics"
	"habit-persona/internal/personality"
	"habit-persona/internal/repository"
	"habit-persona/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	var (
		lock     service.AnalysisLock
		cache    service.ProfileCache
		notifier service.ProfileNotifier
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-process lock and no cache", zap.Error(err))
		} else {
			lock = service.NewRedisAnalysisLock(redisClient, time.Duration(cfg.AnalysisLockTTLSeconds)*time.Second)
			cache = service.NewRedisProfileCache(redisClient, time.Duration(cfg.ProfileCacheTTLMinutes)*time.Minute)
			notifier = service.NewRedisProfileNotifier(redisClient, cfg.ProfileUpdatesChannel)
		}
		cancel()
	}
	if lock == nil {
		lock = service.NewMemoryAnalysisLock(time.Duration(cfg.AnalysisLockTTLSeconds) * time.Second)
	}

	opts := personality.DefaultOptions()
	opts.WindowDays = cfg.AnalysisWindowDays
	engine := personality.NewEngine(opts)

	analysisSvc := service.NewAnalysisService(
		logger,
		engine,
		repository.NewPgHabitRepository(pool),
		repository.NewPgLogRepository(pool),
		repository.NewPgCategoryRepository(pool),
		repository.NewPgProfileRepository(pool),
		lock,
		cache,
		notifier,
		metrics.NewAnalysisMetrics(prometheus.DefaultRegisterer),
	)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	analysisHandler := apihttp.NewAnalysisHandler(logger, analysisSvc)
	router := apihttp.NewRouter(logger, jwtSvc, analysisHandler, pingPool(pool))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("analysis_window_days", engine.WindowDays()),
		zap.String("algorithm_version", personality.AlgorithmVersion),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func pingPool(pool *pgxpool.Pool) apihttp.HealthCheck {
	return func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	}
}
