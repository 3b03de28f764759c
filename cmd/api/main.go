package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-dashboard/internal/app"
	"github.com/jwalitptl/clinic-dashboard/internal/config"
	analyticsHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/analytics"
	appointmentHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/appointment"
	authHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/doctor"
	"github.com/jwalitptl/clinic-dashboard/internal/handler/health"
	patientHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/patient"
	promHandler "github.com/jwalitptl/clinic-dashboard/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-dashboard/internal/middleware"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/backend"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/memory"
	redisRepo "github.com/jwalitptl/clinic-dashboard/internal/repository/redis"
	"github.com/jwalitptl/clinic-dashboard/internal/router"
	analyticsService "github.com/jwalitptl/clinic-dashboard/internal/service/analytics"
	appointmentService "github.com/jwalitptl/clinic-dashboard/internal/service/appointment"
	authService "github.com/jwalitptl/clinic-dashboard/internal/service/auth"
	doctorService "github.com/jwalitptl/clinic-dashboard/internal/service/doctor"
	patientService "github.com/jwalitptl/clinic-dashboard/internal/service/patient"
	"github.com/jwalitptl/clinic-dashboard/pkg/auth"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
	"github.com/jwalitptl/clinic-dashboard/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := app.Logger(cfg.Log, "api")
	if err := run(cfg, log); err != nil {
		log.Fatal(err, "api stopped")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if err := middleware.RegisterValidators(middleware.DefaultValidationConfig()); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry, app.MetricsNamespace, "")

	client := app.BackendClient(cfg, m, log)
	checks := map[string]health.Check{"backend": client.Ready}

	// Redis backs sessions and events when either is configured.
	var rdb *goredis.Client
	if cfg.Session.Store == "redis" || cfg.Events.Enabled {
		rdb, err = redis.NewClient(ctx, app.RedisConfig(cfg.Redis))
		if err != nil {
			return err
		}
		defer rdb.Close()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	var sessions repository.SessionRepository
	if cfg.Session.Store == "redis" {
		var sealer security.Encryptor
		if cfg.Session.EncryptionKey != "" {
			if sealer, err = security.NewEncryptorFromSecret(cfg.Session.EncryptionKey, "clinic-dashboard/session"); err != nil {
				return fmt.Errorf("invalid session encryption key: %w", err)
			}
		} else {
			log.Warn("redis sessions are stored unencrypted; set CLINIC_SESSION_KEY")
		}
		sessions = redisRepo.NewSessionRepository(rdb, cfg.Redis.KeyPrefix, cfg.SessionTTL(), sealer)
	} else {
		sessions = memory.NewSessionRepository(cfg.SessionTTL())
	}

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Events.Enabled {
		publisher = messaging.NewEventPublisher(redis.NewFromClient(rdb, &log.ZL), cfg.Events.Channel)
	}

	jwtSvc, err := auth.NewJWTService(cfg.Session.JWTSecret, cfg.Session.Issuer)
	if err != nil {
		return err
	}

	doctors := memory.NewCachedDoctorRepository(
		backend.NewDoctorRepository(client),
		time.Duration(cfg.Backend.DoctorCacheSeconds)*time.Second,
	)
	appointments := backend.NewAppointmentRepository(client)

	authSvc := authService.NewService(backend.NewAuthRepository(client), sessions, jwtSvc, cfg.SessionTTL(), m, log)
	doctorSvc := doctorService.NewService(doctors, loc, cfg.Clinic.BookingDays)
	patientSvc := patientService.NewService(backend.NewPatientRepository(client))
	appointmentSvc := appointmentService.NewService(appointments, doctors,
		appointmentService.NewSnapshotStore(cfg.SessionTTL()), publisher, m, log, loc)
	analyticsSvc := analyticsService.NewService(doctors, appointments, loc)

	r := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		authHandler.NewHandler(authSvc, appointmentSvc),
		health.NewHandler(checks, 2*time.Second),
		promHandler.New(registry, app.MetricsNamespace),
		router.RouterConfig{
			RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: cfg.RequestTimeout(),
			CORSConfig:     middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins...),
			SecureHeaders:  middleware.DefaultSecurityConfig(),
			SizeLimit:      middleware.DefaultSizeLimitConfig(),
			Debug:          cfg.Log.Level == "debug",
		},
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		analyticsHandler.NewHandler(analyticsSvc, cfg.Clinic.Name, m),
	)
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", srv.Addr, "backend", cfg.Backend.BaseURL, "sessions", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}
