package backend

import (
	"context"
	"net/http"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
)

type patientRepository struct {
	client *Client
}

func NewPatientRepository(client *Client) repository.PatientRepository {
	return &patientRepository{client: client}
}

func (r *patientRepository) List(ctx context.Context, sess *model.Session) ([]model.Patient, error) {
	var out []model.Patient
	if err := r.client.do(ctx, sess, "list_patients", http.MethodGet, "/patients", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Patient{}
	}
	return out, nil
}

func (r *patientRepository) Create(ctx context.Context, sess *model.Session, patient *model.Patient) (*model.Patient, error) {
	var out model.Patient
	if err := r.client.do(ctx, sess, "create_patient", http.MethodPost, "/patients", patient, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
