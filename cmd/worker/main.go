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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/clinic-dashboard/internal/app"
	"github.com/jwalitptl/clinic-dashboard/internal/config"
	"github.com/jwalitptl/clinic-dashboard/internal/email"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/backend"
	analyticsService "github.com/jwalitptl/clinic-dashboard/internal/service/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/worker"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "worker",
		Short:         "Clinic dashboard background jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config.yaml or ./config/config.yaml)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(eventsCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand starts from.
type env struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func setup(cmd *cobra.Command, component string) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &env{
		cfg:      cfg,
		log:      app.Logger(cfg.Log, component),
		registry: registry,
		metrics:  metrics.NewMetrics(registry, app.MetricsNamespace, "worker"),
	}, nil
}

// reportWorker wires the daily report job. outputDir and recipients override config when set.
func (e *env) reportWorker(outputDir string, recipients []string) (*worker.DailyReportWorker, error) {
	loc, err := e.cfg.Location()
	if err != nil {
		return nil, err
	}
	if e.cfg.Backend.ServiceToken == "" {
		return nil, errors.New("backend.service_token is required for reports")
	}
	if outputDir == "" {
		outputDir = e.cfg.Report.OutputDir
	}
	if recipients == nil {
		recipients = e.cfg.Report.Recipients
	}

	client := app.BackendClient(e.cfg, e.metrics, e.log)
	source := analyticsService.NewService(
		backend.NewDoctorRepository(client),
		backend.NewAppointmentRepository(client),
		loc,
	)

	var mailer worker.Mailer
	if e.cfg.SMTP.Host != "" {
		mailer = email.NewService(email.Config{
			Host:     e.cfg.SMTP.Host,
			Port:     e.cfg.SMTP.Port,
			Username: e.cfg.SMTP.Username,
			Password: e.cfg.SMTP.Password,
			From:     e.cfg.SMTP.From,
		}, e.log)
	}

	return worker.NewDailyReportWorker(worker.DailyReportConfig{
		SendAt:     e.cfg.Report.SendAt,
		Location:   loc,
		Recipients: recipients,
		OutputDir:  outputDir,
		Clinic:     e.cfg.Clinic.Name,
		Session:    &model.Session{ID: "worker", Token: e.cfg.Backend.ServiceToken},
	}, source, mailer, e.metrics, e.log)
}

func (e *env) eventLogger(ctx context.Context) (*worker.EventLogger, func() error, error) {
	if e.cfg.Redis.URL == "" {
		return nil, nil, errors.New("redis.url is required to follow events")
	}
	broker, err := redis.NewRedisBroker(ctx, app.RedisConfig(e.cfg.Redis), &e.log.ZL)
	if err != nil {
		return nil, nil, err
	}
	return worker.NewEventLogger(broker, e.cfg.Events.Channel, e.log), broker.Close, nil
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Mail the daily report on schedule and follow events when enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "worker")
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("metrics-addr")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reports, err := e.reportWorker("", nil)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				reports.Start(ctx)
				return nil
			})
			if e.cfg.Events.Enabled {
				events, closeBroker, err := e.eventLogger(ctx)
				if err != nil {
					return err
				}
				defer closeBroker()
				g.Go(func() error { return events.Start(ctx) })
			}
			if addr != "" {
				g.Go(func() error { return serveOps(ctx, addr, e.registry) })
			}

			e.log.Info("worker started", "send_at", e.cfg.Report.SendAt, "events", e.cfg.Events.Enabled)
			err = g.Wait()
			e.log.Info("worker stopped")
			return err
		},
	}
	cmd.Flags().String("metrics-addr", ":8081", "Address for /metrics and /health/live, empty to disable")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the daily report once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "report")
			if err != nil {
				return err
			}
			date, _ := cmd.Flags().GetString("date")
			out, _ := cmd.Flags().GetString("out")
			mail, _ := cmd.Flags().GetBool("email")

			var recipients []string
			if !mail {
				recipients = []string{}
			}
			w, err := e.reportWorker(out, recipients)
			if err != nil {
				return err
			}

			res, err := w.RunOnce(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report for %s: %d appointments, written to %s, mailed: %t\n",
				res.Report.Summary.Date, res.Report.Summary.TotalAppointments, res.Path, res.Mailed)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Report date as YYYY-MM-DD (default today in the clinic time zone)")
	cmd.Flags().String("out", "", "Directory for the PDF (default report.output_dir)")
	cmd.Flags().Bool("email", false, "Mail the report to report.recipients")
	return cmd
}

func eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Log appointment events published by the api",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, "events")
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			events, closeBroker, err := e.eventLogger(ctx)
			if err != nil {
				return err
			}
			defer closeBroker()
			return events.Start(ctx)
		},
	}
}

// serveOps exposes metrics and liveness until ctx is done.
func serveOps(ctx context.Context, addr string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ops server: %w", err)
	}
	return nil
}
