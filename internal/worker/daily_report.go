package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/report"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

type ReportSource interface {
	Report(ctx context.Context, sess *model.Session, isoDate string) (*analytics.DailyReport, error)
}

type Mailer interface {
	SendDailyReport(ctx context.Context, to []string, r *analytics.DailyReport, pdf []byte, filename string) error
}

type DailyReportConfig struct {
	// SendAt is the local wall-clock time of the daily run, "18:30".
	SendAt     string
	Location   *time.Location
	Recipients []string
	OutputDir  string
	Clinic     string
	// Session carries the service token the worker calls the backend with.
	Session *model.Session
}

// DailyReportWorker builds the daily report once a day, writes the PDF to
// OutputDir and mails it when recipients are configured.
type DailyReportWorker struct {
	cfg     DailyReportConfig
	hour    int
	minute  int
	source  ReportSource
	mailer  Mailer
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

// RunResult describes one report run.
type RunResult struct {
	Report *analytics.DailyReport
	Path   string
	Mailed bool
}

func NewDailyReportWorker(cfg DailyReportConfig, source ReportSource, mailer Mailer, m *metrics.Metrics, log *logger.Logger) (*DailyReportWorker, error) {
	at, err := time.Parse("15:04", cfg.SendAt)
	if err != nil {
		return nil, fmt.Errorf("invalid report send time %q, want HH:MM", cfg.SendAt)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Session == nil {
		cfg.Session = &model.Session{ID: "worker"}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DailyReportWorker{
		cfg:     cfg,
		hour:    at.Hour(),
		minute:  at.Minute(),
		source:  source,
		mailer:  mailer,
		metrics: m,
		logger:  log,
		now:     time.Now,
	}, nil
}

// Start runs the report at the configured time every day until ctx is done.
func (w *DailyReportWorker) Start(ctx context.Context) {
	for {
		next := w.NextRun(w.now())
		w.logger.Info("next daily report scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := w.RunOnce(ctx, ""); err != nil {
				w.logger.Error(err, "daily report failed")
			}
		}
	}
}

// NextRun is the first send time strictly after now.
func (w *DailyReportWorker) NextRun(now time.Time) time.Time {
	now = now.In(w.cfg.Location)
	y, m, d := now.Date()
	next := time.Date(y, m, d, w.hour, w.minute, 0, 0, w.cfg.Location)
	if !next.After(now) {
		next = time.Date(y, m, d+1, w.hour, w.minute, 0, 0, w.cfg.Location)
	}
	return next
}

// RunOnce builds and delivers the report for a YYYY-MM-DD date, today when empty.
func (w *DailyReportWorker) RunOnce(ctx context.Context, isoDate string) (*RunResult, error) {
	start := time.Now()
	res, err := w.run(ctx, isoDate)
	if w.metrics != nil {
		w.metrics.ReportLatency.Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		w.metrics.ReportsGenerated.WithLabelValues(result).Inc()
	}
	return res, err
}

func (w *DailyReportWorker) run(ctx context.Context, isoDate string) (*RunResult, error) {
	r, err := w.source.Report(ctx, w.cfg.Session, isoDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	pdf, err := report.RenderPDF(r, w.cfg.Clinic)
	if err != nil {
		return nil, err
	}

	res := &RunResult{Report: r}
	name := report.FileName(r)

	if w.cfg.OutputDir != "" {
		if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
		res.Path = filepath.Join(w.cfg.OutputDir, name)
		if err := os.WriteFile(res.Path, pdf, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	if w.mailer != nil && len(w.cfg.Recipients) > 0 {
		if err := w.mailer.SendDailyReport(ctx, w.cfg.Recipients, r, pdf, name); err != nil {
			return res, err
		}
		res.Mailed = true
	}

	w.logger.Info("daily report generated",
		"date", r.Summary.Date,
		"appointments", r.Summary.TotalAppointments,
		"path", res.Path,
		"mailed", res.Mailed,
	)
	return res, nil
}
