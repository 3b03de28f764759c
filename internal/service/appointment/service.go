package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
	"github.com/jwalitptl/clinic-dashboard/pkg/messaging"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

// Event types published on the events channel.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

type StatusChanged struct {
	AppointmentID string                  `json:"appointmentId"`
	Status        model.AppointmentStatus `json:"status"`
	UserID        string                  `json:"userId,omitempty"`
}

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	snapshots    *SnapshotStore
	publisher    messaging.Publisher
	metrics      *metrics.Metrics
	logger       *logger.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository,
	snapshots *SnapshotStore, publisher messaging.Publisher, m *metrics.Metrics, log *logger.Logger, loc *time.Location) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		snapshots:    snapshots,
		publisher:    publisher,
		metrics:      m,
		logger:       log,
		loc:          loc,
		now:          time.Now,
	}
}

// Mount loads doctors and appointments in parallel and replaces the
// session's snapshot. On failure the previous snapshot is kept.
func (s *Service) Mount(ctx context.Context, sess *model.Session) error {
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
		return err
	}

	s.snapshots.For(sess.ID).Replace(doctors, appointments, s.now())
	return nil
}

// List computes the appointment table from the session snapshot, loading it
// first when refresh is set or nothing has been loaded yet.
func (s *Service) List(ctx context.Context, sess *model.Session, q listing.Query, refresh bool) (*listing.Result, error) {
	snap := s.snapshots.For(sess.ID)
	if refresh || !snap.Loaded() {
		if err := s.Mount(ctx, sess); err != nil {
			return nil, err
		}
	}

	_, appointments := snap.All()
	res, err := listing.Run(appointments, q, s.now(), s.loc)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return res, nil
}

// Book creates an appointment in a slot the doctor offers and puts it at the
// top of the session's table.
func (s *Service) Book(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	req.Phone = model.SanitizePhone(req.Phone)
	req.PatientName = strings.TrimSpace(req.PatientName)
	if len(req.Phone) != 10 {
		return nil, apperrors.BadRequest("phone must have 10 digits", nil)
	}
	if req.PatientName == "" {
		return nil, apperrors.BadRequest("patientName is required", nil)
	}
	switch req.Type {
	case "":
		req.Type = model.AppointmentTypeNewPatient
	case model.AppointmentTypeNewPatient, model.AppointmentTypeRevisit, model.AppointmentTypeFollowUp:
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid appointment type %q", req.Type), nil)
	}
	if req.Timezone == "" {
		req.Timezone = model.DefaultTimezone
	}

	date, err := schedule.ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	req.Date = schedule.FormatDate(date, s.loc)
	req.Day = model.WeekdayOf(date).String()

	// The doctor repository sees availability edits; the snapshot may not.
	doctor, err := s.doctors.Get(ctx, sess, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !schedule.Offers(doctor, req.Date, req.Time, s.loc) {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s is not available on %s at %s", doctor.Name, req.Date, req.Time), nil)
	}

	created, err := s.appointments.Create(ctx, sess, req)
	if err != nil {
		return nil, err
	}

	created.Doctor = model.EmbeddedDoctor(doctor)
	created.PatientName = req.PatientName
	created.Normalize()
	if snap := s.snapshots.For(sess.ID); snap.Loaded() {
		snap.Prepend(*created)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}
	s.publish(ctx, EventAppointmentCreated, created)
	return created, nil
}

// UpdateStatus sends the new status to the backend and, only once the
// backend accepts it, applies it to the session snapshot.
func (s *Service) UpdateStatus(ctx context.Context, sess *model.Session, id, status string) error {
	st, err := model.ParseAppointmentStatus(status)
	if err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.BadRequest("appointment id is required", nil)
	}

	if err := s.appointments.UpdateStatus(ctx, sess, id, st); err != nil {
		s.countStatus(st, "error")
		return err
	}

	if !s.snapshots.For(sess.ID).ApplyStatus(id, st) {
		s.logger.Debug("updated appointment not in snapshot", "appointment_id", id)
	}
	s.countStatus(st, "ok")
	s.publish(ctx, EventAppointmentStatusChanged, StatusChanged{AppointmentID: id, Status: st, UserID: sess.UserID})
	return nil
}

func (s *Service) countStatus(st model.AppointmentStatus, result string) {
	if s.metrics != nil {
		s.metrics.StatusUpdates.WithLabelValues(string(st), result).Inc()
	}
}

// publish only logs failures.
func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Error(err, "failed to publish event", "event", eventType)
		if s.metrics != nil {
			s.metrics.EventsPublishFailure.Inc()
		}
	}
}

// Forget drops the session's snapshot, on logout.
func (s *Service) Forget(sess *model.Session) {
	s.snapshots.Drop(sess.ID)
}
