package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=farmq port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3000"
	defaultModelURL    = "http://localhost:8000"
)

type Config struct {
	HTTPPort            string
	DatabaseDSN         string
	DBConnectTimeout    time.Duration
	JWTSecret           string
	JWTTTL              time.Duration
	CORSOrigins         string
	ModelServiceURL     string
	ModelServiceTimeout time.Duration
	// PredictionFallback enables the heuristic predictor when the model service fails.
	PredictionFallback bool
	Environment        string
	LogLevel           string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", defaultDSN),
		DBConnectTimeout:    getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTTTL:              getDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:         getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		ModelServiceURL:     getEnv("MODEL_SERVICE_URL", defaultModelURL),
		ModelServiceTimeout: getDuration("MODEL_SERVICE_TIMEOUT", 15*time.Second),
		PredictionFallback:  getBool("PREDICTION_FALLBACK", false),
		Environment:         getEnv("ENVIRONMENT", "local"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
}

// Validate rejects settings the server cannot run with and logs warnings for
// development defaults left in place.
func (c *Config) Validate(log logrus.FieldLogger) error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.DatabaseDSN == defaultDSN {
		log.Warn("DATABASE_DSN is using the local default")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		log.Warn("CORS_ALLOWED_ORIGINS is using the local default")
	}
	if c.ModelServiceURL == defaultModelURL {
		log.Warn("MODEL_SERVICE_URL is not set, using " + defaultModelURL)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
