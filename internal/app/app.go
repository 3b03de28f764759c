// Package app builds the pieces cmd/api and cmd/worker both wire from config.
package app

import (
	"os"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/config"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/backend"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

// MetricsNamespace prefixes every metric the binaries export.
const MetricsNamespace = "clinic_dashboard"

// Logger builds the process logger and installs it globally.
func Logger(cfg config.LogConfig, component string) *logger.Logger {
	l := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.JSON,
	}).WithFields(map[string]interface{}{"component": component})
	logger.SetGlobal(l)
	return l
}

func BackendClient(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *backend.Client {
	return backend.NewClient(backend.Options{
		BaseURL:         cfg.Backend.BaseURL,
		Timeout:         cfg.BackendTimeout(),
		BreakerFailures: cfg.Backend.BreakerFailures,
		BreakerOpen:     time.Duration(cfg.Backend.BreakerOpenSeconds) * time.Second,
		Metrics:         m,
		Logger:          &log.ZL,
	})
}

func RedisConfig(cfg config.RedisConfig) redis.Config {
	return redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
}
