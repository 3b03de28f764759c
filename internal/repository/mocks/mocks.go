// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

type AuthRepository struct{ mock.Mock }

func (m *AuthRepository) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResult, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*model.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthRepository) Register(ctx context.Context, req *model.RegisterRequest) (*model.MessageResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*model.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AuthRepository) Logout(ctx context.Context, sess *model.Session) error {
	return m.Called(ctx, sess).Error(0)
}

type DoctorRepository struct{ mock.Mock }

func (m *DoctorRepository) List(ctx context.Context, sess *model.Session) ([]model.Doctor, error) {
	args := m.Called(ctx, sess)
	if v := args.Get(0); v != nil {
		return v.([]model.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepository) Get(ctx context.Context, sess *model.Session, id string) (*model.Doctor, error) {
	args := m.Called(ctx, sess, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepository) Create(ctx context.Context, sess *model.Session, d *model.Doctor) (*model.Doctor, error) {
	args := m.Called(ctx, sess, d)
	if v := args.Get(0); v != nil {
		return v.(*model.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepository) Update(ctx context.Context, sess *model.Session, d *model.Doctor) (*model.Doctor, error) {
	args := m.Called(ctx, sess, d)
	if v := args.Get(0); v != nil {
		return v.(*model.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DoctorRepository) Delete(ctx context.Context, sess *model.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

type PatientRepository struct{ mock.Mock }

func (m *PatientRepository) List(ctx context.Context, sess *model.Session) ([]model.Patient, error) {
	args := m.Called(ctx, sess)
	if v := args.Get(0); v != nil {
		return v.([]model.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PatientRepository) Create(ctx context.Context, sess *model.Session, p *model.Patient) (*model.Patient, error) {
	args := m.Called(ctx, sess, p)
	if v := args.Get(0); v != nil {
		return v.(*model.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

type AppointmentRepository struct{ mock.Mock }

func (m *AppointmentRepository) List(ctx context.Context, sess *model.Session) ([]model.Appointment, error) {
	args := m.Called(ctx, sess)
	if v := args.Get(0); v != nil {
		return v.([]model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AppointmentRepository) Create(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	args := m.Called(ctx, sess, req)
	if v := args.Get(0); v != nil {
		return v.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AppointmentRepository) UpdateStatus(ctx context.Context, sess *model.Session, id string, status model.AppointmentStatus) error {
	return m.Called(ctx, sess, id, status).Error(0)
}

type SessionRepository struct{ mock.Mock }

func (m *SessionRepository) Save(ctx context.Context, sess *model.Session) error {
	return m.Called(ctx, sess).Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// Publisher records published events.
type Publisher struct{ mock.Mock }

func (m *Publisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return m.Called(ctx, eventType, payload).Error(0)
}
