package doctor

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type Service struct {
	repo        repository.DoctorRepository
	loc         *time.Location
	bookingDays int
	now         func() time.Time
}

func NewService(repo repository.DoctorRepository, loc *time.Location, bookingDays int) *Service {
	if bookingDays <= 0 {
		bookingDays = schedule.DefaultBookingDays
	}
	return &Service{repo: repo, loc: loc, bookingDays: bookingDays, now: time.Now}
}

// List returns the roster rows, filtered and ordered the way the roster page shows them.
func (s *Service) List(ctx context.Context, sess *model.Session, search, sortBy string) ([]model.DoctorSummary, error) {
	doctors, err := s.repo.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	ordered, err := listing.Doctors(doctors, strings.TrimSpace(search), sortBy)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	out := make([]model.DoctorSummary, 0, len(ordered))
	for _, d := range ordered {
		out = append(out, summarize(d))
	}
	return out, nil
}

func summarize(d model.Doctor) model.DoctorSummary {
	days := d.Availability.Days()
	ranges := make(map[string]string, len(days))
	for _, day := range days {
		ranges[day.String()] = schedule.DescribeRange(d.Availability.Slots(day))
	}
	return model.DoctorSummary{
		Doctor:        d,
		Initials:      listing.Initials(d.Name),
		AvailableDays: days,
		Ranges:        ranges,
	}
}

func (s *Service) Get(ctx context.Context, sess *model.Session, id string) (*model.Doctor, error) {
	return s.repo.Get(ctx, sess, id)
}

func (s *Service) Create(ctx context.Context, sess *model.Session, d *model.Doctor) (*model.Doctor, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	d.ID = ""
	return s.repo.Create(ctx, sess, d)
}

func (s *Service) Update(ctx context.Context, sess *model.Session, id string, d *model.Doctor) (*model.Doctor, error) {
	if err := validate(d); err != nil {
		return nil, err
	}
	d.ID = id
	return s.repo.Update(ctx, sess, d)
}

func (s *Service) Delete(ctx context.Context, sess *model.Session, id string) error {
	return s.repo.Delete(ctx, sess, id)
}

func validate(d *model.Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Specialty = strings.TrimSpace(d.Specialty)
	switch {
	case d.Name == "":
		return apperrors.BadRequest("name is required", nil)
	case d.Specialty == "":
		return apperrors.BadRequest("specialty is required", nil)
	case d.AppointmentsPerHour < 1:
		return apperrors.BadRequest("appointmentsPerHour must be at least 1", nil)
	case d.YearsOfExperience < 0:
		return apperrors.BadRequest("yearsOfExperience cannot be negative", nil)
	}
	return nil
}

// AddAvailability merges the hourly slots of sel into the doctor's
// availability and saves the doctor.
func (s *Service) AddAvailability(ctx context.Context, sess *model.Session, id string, sel schedule.TimeSlotSelection) (*model.Doctor, error) {
	d, err := s.repo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	av := d.Availability.Clone()
	if err := sel.Apply(&av); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	d.Availability = av
	return s.repo.Update(ctx, sess, d)
}

func (s *Service) RemoveDay(ctx context.Context, sess *model.Session, id, day string) (*model.Doctor, error) {
	wd, err := model.ParseWeekday(day)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	d, err := s.repo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !d.Availability.Has(wd) {
		return d, nil
	}
	av := d.Availability.Clone()
	av.RemoveDay(wd)
	d.Availability = av
	return s.repo.Update(ctx, sess, d)
}

// BookingDates lists the next dates the doctor works, starting today.
func (s *Service) BookingDates(ctx context.Context, sess *model.Session, id string) ([]schedule.BookableDate, error) {
	d, err := s.repo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	dates, err := schedule.BookingDates(d, s.now(), s.loc, s.bookingDays)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return dates, nil
}

// Slots lists the doctor's slots on a DD/MM/YYYY date.
func (s *Service) Slots(ctx context.Context, sess *model.Session, id, date string) ([]string, error) {
	d, err := s.repo.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	slots, err := schedule.SlotsFor(d, date, s.loc)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date, expected DD/MM/YYYY", err)
	}
	return slots, nil
}
