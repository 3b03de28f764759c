package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type doctorRepository struct {
	client *Client
}

func NewDoctorRepository(client *Client) repository.DoctorRepository {
	return &doctorRepository{client: client}
}

func (r *doctorRepository) List(ctx context.Context, sess *model.Session) ([]model.Doctor, error) {
	var out []model.Doctor
	if err := r.client.do(ctx, sess, "list_doctors", http.MethodGet, "/doctors", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Doctor{}
	}
	return out, nil
}

func (r *doctorRepository) Get(ctx context.Context, sess *model.Session, id string) (*model.Doctor, error) {
	if id == "" {
		return nil, apperrors.BadRequest("doctor id is required", nil)
	}
	var out model.Doctor
	if err := r.client.do(ctx, sess, "get_doctor", http.MethodGet, "/doctors/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *doctorRepository) Create(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error) {
	var out model.Doctor
	if err := r.client.do(ctx, sess, "create_doctor", http.MethodPost, "/doctors", doctor, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *doctorRepository) Update(ctx context.Context, sess *model.Session, doctor *model.Doctor) (*model.Doctor, error) {
	if doctor.ID == "" {
		return nil, apperrors.BadRequest("doctor id is required", nil)
	}
	var out model.Doctor
	if err := r.client.do(ctx, sess, "update_doctor", http.MethodPut, "/doctors/"+url.PathEscape(doctor.ID), doctor, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out = *doctor
	}
	return &out, nil
}

func (r *doctorRepository) Delete(ctx context.Context, sess *model.Session, id string) error {
	if id == "" {
		return apperrors.BadRequest("doctor id is required", nil)
	}
	return r.client.do(ctx, sess, "delete_doctor", http.MethodDelete, "/doctors/"+url.PathEscape(id), nil, nil)
}
