package patient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/clinic-dashboard/internal/handler/handlertest"
	"github.com/jwalitptl/clinic-dashboard/internal/listing"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/mocks"
	"github.com/jwalitptl/clinic-dashboard/internal/service/patient"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

var sess = &model.Session{ID: "s1", Token: "tok", UserID: "u1"}

func setup(t *testing.T) (http.Handler, *mocks.PatientRepository) {
	t.Helper()
	repo := new(mocks.PatientRepository)
	r, g := handlertest.Engine(sess)
	NewHandler(patient.NewService(repo)).RegisterRoutes(g)
	return r, repo
}

func TestListPatients(t *testing.T) {
	r, repo := setup(t)
	repo.On("List", mock.Anything, sess).Return([]model.Patient{
		{ID: "p1", Name: "Ravi Kumar", Location: "Pune", Phone: "9876543210"},
		{ID: "p2", Name: "Meera Shah", Location: "Mumbai", Phone: "9123456780"},
	}, nil)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/patients?search=mumbai", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var page listing.PatientPage
	handlertest.Decode(t, w, &page)
	assert.Equal(t, 1, page.Total)
	if assert.Len(t, page.Items, 1) {
		assert.Equal(t, "p2", page.Items[0].ID)
	}
}

func TestListPatients_BadPage(t *testing.T) {
	r, repo := setup(t)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/patients?page=zero", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCreatePatient(t *testing.T) {
	r, repo := setup(t)
	repo.On("Create", mock.Anything, sess, mock.MatchedBy(func(p *model.Patient) bool {
		return p.Name == "Ravi" && len(p.MedicalHistory) == 2
	})).Return(&model.Patient{ID: "p9", Name: "Ravi"}, nil)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/patients", map[string]interface{}{
		"name":               " Ravi ",
		"location":           "Pune",
		"phone":              "9876543210",
		"medicalHistoryText": "asthma, diabetes",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var created model.Patient
	handlertest.Decode(t, w, &created)
	assert.Equal(t, "p9", created.ID)
	repo.AssertExpectations(t)
}

func TestCreatePatient_Validation(t *testing.T) {
	r, repo := setup(t)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/patients", map[string]string{"name": "Ravi"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := handlertest.Decode(t, w, nil)
	if assert.NotNil(t, env.Error) {
		fields := make([]string, 0, len(env.Error.Details))
		for _, d := range env.Error.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"location", "phone"}, fields)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePatient_UpstreamFailure(t *testing.T) {
	r, repo := setup(t)
	repo.On("Create", mock.Anything, sess, mock.Anything).Return(nil, apperrors.Upstream("clinic backend unavailable", nil))

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/patients", map[string]string{
		"name": "Ravi", "location": "Pune", "phone": "9876543210",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestListPatients_RequiresSession(t *testing.T) {
	r, g := handlertest.Engine(nil)
	NewHandler(patient.NewService(new(mocks.PatientRepository))).RegisterRoutes(g)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/patients", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
