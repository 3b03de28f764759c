package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type appointmentRepository struct {
	client *Client
}

func NewAppointmentRepository(client *Client) repository.AppointmentRepository {
	return &appointmentRepository{client: client}
}

// List returns every appointment with its display fields normalized.
func (r *appointmentRepository) List(ctx context.Context, sess *model.Session) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := r.client.do(ctx, sess, "list_appointments", http.MethodGet, "/appointments", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Appointment{}
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (r *appointmentRepository) Create(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	var out model.Appointment
	if err := r.client.do(ctx, sess, "create_appointment", http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, sess *model.Session, id string, status model.AppointmentStatus) error {
	if id == "" {
		return apperrors.BadRequest("appointment id is required", nil)
	}
	body := map[string]model.AppointmentStatus{"status": status}
	return r.client.do(ctx, sess, "update_appointment_status", http.MethodPatch, "/appointments/"+url.PathEscape(id), body, nil)
}
