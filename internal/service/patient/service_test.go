package patient

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/mocks"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

var sess = &model.Session{ID: "s1", Token: "tok"}

func TestService_List(t *testing.T) {
	repo := new(mocks.PatientRepository)
	svc := NewService(repo)
	ctx := context.Background()

	patients := make([]model.Patient, 0, 12)
	for i := 0; i < 12; i++ {
		patients = append(patients, model.Patient{ID: fmt.Sprint(i), Name: fmt.Sprintf("Patient %02d", i), Location: "Pune"})
	}
	patients = append(patients, model.Patient{ID: "x", Name: "Zoya", Location: "Mumbai"})
	repo.On("List", ctx, sess).Return(patients, nil)

	page, err := svc.List(ctx, sess, listing.PatientQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 13, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 3)

	page, err = svc.List(ctx, sess, listing.PatientQuery{Search: " mumbai "})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Zoya", page.Items[0].Name)

	_, err = svc.List(ctx, sess, listing.PatientQuery{Direction: "sideways"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestService_Create(t *testing.T) {
	repo := new(mocks.PatientRepository)
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, sess, mock.MatchedBy(func(p *model.Patient) bool {
		return p.Name == "Ravi" && assert.ObjectsAreEqual([]string{"asthma", "diabetes"}, p.MedicalHistory)
	})).Return(&model.Patient{ID: "p1", Name: "Ravi"}, nil)

	got, err := svc.Create(ctx, sess, &model.CreatePatientRequest{
		Name: " Ravi ", Location: "Pune", Phone: "9876543210", MedicalHistoryText: "asthma, diabetes,",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	_, err = svc.Create(ctx, sess, &model.CreatePatientRequest{Name: "Ravi", Phone: "1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	repo.AssertNumberOfCalls(t, "Create", 1)
}
