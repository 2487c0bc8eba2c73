package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret           string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`

	// Motor de analisis.
	AnalysisWindowDays     int    `env:"ANALYSIS_WINDOW_DAYS" envDefault:"90"`
	AnalysisLockTTLSeconds int    `env:"ANALYSIS_LOCK_TTL_SECONDS" envDefault:"30"`
	ProfileCacheTTLMinutes int    `env:"PROFILE_CACHE_TTL_MINUTES" envDefault:"60"`
	ProfileUpdatesChannel  string `env:"PROFILE_UPDATES_CHANNEL" envDefault:"personality:profile-updated"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
