package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "DATABASE_DSN", "JWT_TTL", "MODEL_SERVICE_URL", "MODEL_SERVICE_TIMEOUT", "PREDICTION_FALLBACK"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, defaultDSN, cfg.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "http://localhost:8000", cfg.ModelServiceURL)
	assert.Equal(t, 15*time.Second, cfg.ModelServiceTimeout)
	assert.False(t, cfg.PredictionFallback)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("MODEL_SERVICE_URL", "http://model:8000")
	t.Setenv("MODEL_SERVICE_TIMEOUT", "3s")
	t.Setenv("PREDICTION_FALLBACK", "true")
	t.Setenv("JWT_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "http://model:8000", cfg.ModelServiceURL)
	assert.Equal(t, 3*time.Second, cfg.ModelServiceTimeout)
	assert.True(t, cfg.PredictionFallback)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestValidate(t *testing.T) {
	log, hook := test.NewNullLogger()

	cfg := &Config{DatabaseDSN: defaultDSN, CORSOrigins: defaultCORSOrigins, ModelServiceURL: defaultModelURL}
	require.Error(t, cfg.Validate(log))

	cfg.JWTSecret = "short"
	require.Error(t, cfg.Validate(log))

	cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
	require.NoError(t, cfg.Validate(log))
	assert.Len(t, hook.AllEntries(), 3)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
