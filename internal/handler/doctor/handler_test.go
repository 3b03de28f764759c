package doctor

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-dashboard/internal/handler/handlertest"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/mocks"
	"github.com/jwalitptl/clinic-dashboard/internal/service/doctor"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
)

var sess = &model.Session{ID: "s1", Token: "tok", UserID: "u1"}

func setup(t *testing.T) (http.Handler, *mocks.DoctorRepository) {
	t.Helper()
	repo := new(mocks.DoctorRepository)
	r, g := handlertest.Engine(sess)
	NewHandler(doctor.NewService(repo, time.UTC, 10)).RegisterRoutes(g)
	return r, repo
}

func rao(t *testing.T) *model.Doctor {
	d := &model.Doctor{ID: "d1", Name: "Asha Rao", Specialty: "Cardiology", AppointmentsPerHour: 2, YearsOfExperience: 12}
	require.NoError(t, d.Availability.AddSlots(model.Monday, "9AM", "10AM"))
	return d
}

func TestListDoctors(t *testing.T) {
	r, repo := setup(t)
	repo.On("List", mock.Anything, sess).Return([]model.Doctor{
		*rao(t),
		{ID: "d2", Name: "Vikram Iyer", Specialty: "Dermatology", AppointmentsPerHour: 4},
	}, nil)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors?search=derma", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out []model.DoctorSummary
	handlertest.Decode(t, w, &out)
	if assert.Len(t, out, 1) {
		assert.Equal(t, "d2", out[0].ID)
		assert.Equal(t, "VI", out[0].Initials)
	}
}

func TestCreateDoctor(t *testing.T) {
	r, repo := setup(t)
	repo.On("Create", mock.Anything, sess, mock.MatchedBy(func(d *model.Doctor) bool {
		return d.Name == "Asha Rao" && d.AppointmentsPerHour == 2
	})).Return(rao(t), nil)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"name": "Asha Rao", "specialty": "Cardiology", "appointmentsPerHour": 2, "yearsOfExperience": 12,
	})

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	repo.AssertExpectations(t)
}

func TestCreateDoctor_Validation(t *testing.T) {
	r, repo := setup(t)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/doctors", map[string]interface{}{
		"name": "Asha Rao", "appointmentsPerHour": 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := handlertest.Decode(t, w, nil)
	require.NotNil(t, env.Error)
	assert.NotEmpty(t, env.Error.Details)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/doctors", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAndDeleteDoctor(t *testing.T) {
	r, repo := setup(t)
	repo.On("Get", mock.Anything, sess, "d1").Return(rao(t), nil)
	repo.On("Get", mock.Anything, sess, "nope").Return(nil, apperrors.NotFound("doctor", nil))
	repo.On("Delete", mock.Anything, sess, "d1").Return(nil)

	assert.Equal(t, http.StatusOK, handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors/d1", nil).Code)
	assert.Equal(t, http.StatusNotFound, handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors/nope", nil).Code)
	assert.Equal(t, http.StatusOK, handlertest.Do(t, r, http.MethodDelete, "/api/v1/doctors/d1", nil).Code)
	repo.AssertExpectations(t)
}

func TestAddAvailability(t *testing.T) {
	r, repo := setup(t)
	repo.On("Get", mock.Anything, sess, "d1").Return(rao(t), nil)
	repo.On("Update", mock.Anything, sess, mock.MatchedBy(func(d *model.Doctor) bool {
		return d.Availability.Has(model.Monday) && d.Availability.Has(model.Wednesday)
	})).Return(rao(t), nil)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/doctors/d1/availability", map[string]string{
		"day": "Wednesday", "from": "14:00", "to": "16:00",
	})

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	repo.AssertExpectations(t)
}

func TestAddAvailability_Validation(t *testing.T) {
	r, repo := setup(t)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/doctors/d1/availability", map[string]string{
		"day": "Someday", "from": "9am", "to": "16:00",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := handlertest.Decode(t, w, nil)
	require.NotNil(t, env.Error)
	fields := map[string]string{}
	for _, d := range env.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Unknown day of the week", fields["day"])
	assert.Equal(t, "Time must be HH:MM", fields["from"])
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveDay(t *testing.T) {
	r, repo := setup(t)
	repo.On("Get", mock.Anything, sess, "d1").Return(rao(t), nil)
	repo.On("Update", mock.Anything, sess, mock.MatchedBy(func(d *model.Doctor) bool {
		return !d.Availability.Has(model.Monday)
	})).Return(&model.Doctor{ID: "d1"}, nil)

	assert.Equal(t, http.StatusOK, handlertest.Do(t, r, http.MethodDelete, "/api/v1/doctors/d1/availability/Monday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, handlertest.Do(t, r, http.MethodDelete, "/api/v1/doctors/d1/availability/Funday", nil).Code)
	repo.AssertNumberOfCalls(t, "Update", 1)
}

func TestSlots(t *testing.T) {
	r, repo := setup(t)
	repo.On("Get", mock.Anything, sess, "d1").Return(rao(t), nil)

	// 13/01/2025 is a Monday.
	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors/d1/slots?date=13/01/2025", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var slots []string
	handlertest.Decode(t, w, &slots)
	assert.Equal(t, []string{"9AM", "10AM"}, slots)

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors/d1/slots?date=2025-01-13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingDates_NoAvailability(t *testing.T) {
	r, repo := setup(t)
	repo.On("Get", mock.Anything, sess, "d9").Return(&model.Doctor{ID: "d9", Name: "Nila Das"}, nil)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/doctors/d9/dates", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := handlertest.Decode(t, w, nil)
	assert.JSONEq(t, `[]`, string(env.Data))
}
