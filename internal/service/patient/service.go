package patient

import (
	"context"
	"strings"

	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// List fetches the patients and returns the requested page.
func (s *Service) List(ctx context.Context, sess *model.Session, q listing.PatientQuery) (*listing.PatientPage, error) {
	if q.Page < 0 {
		return nil, apperrors.BadRequest("page must be positive", nil)
	}
	patients, err := s.repo.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	q.Search = strings.TrimSpace(q.Search)
	page, err := listing.Patients(patients, q)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return page, nil
}

func (s *Service) Create(ctx context.Context, sess *model.Session, req *model.CreatePatientRequest) (*model.Patient, error) {
	p := req.ToPatient()
	switch {
	case p.Name == "":
		return nil, apperrors.BadRequest("name is required", nil)
	case p.Location == "":
		return nil, apperrors.BadRequest("location is required", nil)
	case p.Phone == "":
		return nil, apperrors.BadRequest("phone is required", nil)
	}
	return s.repo.Create(ctx, sess, p)
}
