package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/clinic-dashboard/internal/config"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
)

func TestLogger_SetsLevel(t *testing.T) {
	l := Logger(config.LogConfig{Level: "warn", JSON: true}, "test")
	assert.Equal(t, logger.WarnLevel, l.ZL.GetLevel())

	l = Logger(config.LogConfig{Level: "nonsense"}, "test")
	assert.Equal(t, logger.InfoLevel, l.ZL.GetLevel())
}

func TestRedisConfig(t *testing.T) {
	rc := RedisConfig(config.RedisConfig{URL: "redis://localhost:6379/1", PoolSize: 7, MinIdleConns: 1, MaxRetries: 2})
	assert.Equal(t, "redis://localhost:6379/1", rc.URL)
	assert.Equal(t, 7, rc.PoolSize)
	assert.Equal(t, 1, rc.MinIdleConns)
	assert.Equal(t, 2, rc.MaxRetries)
}
