package repository

import (
	"context"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// All repository interfaces in one file. Every backend call carries the
// session whose bearer token authorises it.
type (
	// AuthRepository signs operators in and out of the clinic backend
	AuthRepository interface {
		Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error)
		Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error)
		Logout(ctx context.Context, sess *model.Session) error
	}

	DoctorRepository interface {
		List(ctx context.Context, sess *model.Session) ([]model.Doctor, error)
		Get(ctx context.Context, sess *model.Session, id string) (*model.Doctor, error)
		Create(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error)
		Update(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error)
		Delete(ctx context.Context, sess *model.Session, id string) error
	}

	PatientRepository interface {
		List(ctx context.Context, sess *model.Session) ([]model.Patient, error)
		Create(ctx context.Context, sess *model.Session, patient *model.Patient) (*model.Patient, error)
	}

	AppointmentRepository interface {
		List(ctx context.Context, sess *model.Session) ([]model.Appointment, error)
		Create(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, sess *model.Session, id string, status model.AppointmentStatus) error
	}

	// SessionRepository keeps dashboard sessions. Get returns a NotFound
	// AppError for unknown or expired sessions.
	SessionRepository interface {
		Save(ctx context.Context, sess *model.Session) error
		Get(ctx context.Context, id string) (*model.Session, error)
		Delete(ctx context.Context, id string) error
	}
)
