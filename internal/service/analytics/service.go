package analytics

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type Service struct {
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	loc          *time.Location
	now          func() time.Time
}

func NewService(doctors repository.DoctorRepository, appointments repository.AppointmentRepository, loc *time.Location) *Service {
	return &Service{doctors: doctors, appointments: appointments, loc: loc, now: time.Now}
}

// Day parses a YYYY-MM-DD date in the clinic zone. An empty string is today.
func (s *Service) Day(iso string) (time.Time, error) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return schedule.StartOfDay(s.now(), s.loc), nil
	}
	t, err := time.ParseInLocation(schedule.ISODateLayout, iso, s.loc)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", err)
	}
	return t, nil
}

func (s *Service) Daily(ctx context.Context, sess *model.Session, iso string) (*analytics.Report, error) {
	day, err := s.Day(iso)
	if err != nil {
		return nil, err
	}
	doctors, appointments, err := s.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	report := analytics.Daily(doctors, appointments, day)
	return &report, nil
}

// Report builds the daily report: the day's analytics plus tomorrow's
// bookings per doctor.
func (s *Service) Report(ctx context.Context, sess *model.Session, iso string) (*analytics.DailyReport, error) {
	day, err := s.Day(iso)
	if err != nil {
		return nil, err
	}
	doctors, appointments, err := s.fetch(ctx, sess)
	if err != nil {
		return nil, err
	}
	report := analytics.BuildDailyReport(doctors, appointments, day, s.now().In(s.loc))
	return &report, nil
}

func (s *Service) fetch(ctx context.Context, sess *model.Session) ([]model.Doctor, []model.Appointment, error) {
	var (
		doctors      []model.Doctor
		appointments []model.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctors, err = s.doctors.List(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		appointments, err = s.appointments.List(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return doctors, appointments, nil
}
