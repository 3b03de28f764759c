package analytics

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/handler/handlertest"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/repository/mocks"
	analyticsService "github.com/jwalitptl/clinic-dashboard/internal/service/analytics"
	apperrors "github.com/jwalitptl/clinic-dashboard/pkg/errors"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

var sess = &model.Session{ID: "s1", Token: "tok", UserID: "u1"}

type fixture struct {
	h       http.Handler
	doctors *mocks.DoctorRepository
	appts   *mocks.AppointmentRepository
	metrics *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		doctors: new(mocks.DoctorRepository),
		appts:   new(mocks.AppointmentRepository),
		metrics: metrics.New("test"),
	}
	svc := analyticsService.NewService(f.doctors, f.appts, time.UTC)
	r, g := handlertest.Engine(sess)
	NewHandler(svc, "Sunrise Clinic", f.metrics).RegisterRoutes(g)
	f.h = r
	return f
}

func (f *fixture) seed() {
	f.doctors.On("List", mock.Anything, sess).Return([]model.Doctor{
		{ID: "d1", Name: "Asha Rao", Specialty: "Cardiology", AppointmentsPerHour: 2},
	}, nil)
	f.appts.On("List", mock.Anything, sess).Return([]model.Appointment{
		{ID: "a1", Doctor: model.DoctorReference("d1"), Date: "15/01/2025", Time: "9AM", Type: model.AppointmentTypeNewPatient},
		{ID: "a2", Doctor: model.DoctorReference("d1"), Date: "15/01/2025", Time: "10AM", Type: model.AppointmentTypeRevisit},
		{ID: "a3", Doctor: model.DoctorReference("d1"), Date: "16/01/2025", Time: "9AM", Type: model.AppointmentTypeFollowUp},
	}, nil)
}

func TestDaily(t *testing.T) {
	f := setup(t)
	f.seed()

	w := handlertest.Do(t, f.h, http.MethodGet, "/api/v1/analytics/daily?date=2025-01-15", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report analytics.Report
	handlertest.Decode(t, w, &report)
	assert.Equal(t, 2, report.Summary.TotalAppointments)
	assert.Equal(t, 1, report.Summary.NewPatients)
	assert.Equal(t, 1, report.Summary.Revisits)
}

func TestDaily_BadDate(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.h, http.MethodGet, "/api/v1/analytics/daily?date=15/01/2025", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.doctors.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestReportPDF(t *testing.T) {
	f := setup(t)
	f.seed()

	w := handlertest.Do(t, f.h, http.MethodGet, "/api/v1/analytics/report.pdf?date=2025-01-15", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="daily-report-2025-01-15.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReportsGenerated.WithLabelValues("ok")))
}

func TestReportPDF_BackendDown(t *testing.T) {
	f := setup(t)
	f.doctors.On("List", mock.Anything, sess).Return(nil, apperrors.Upstream("clinic backend unavailable", nil))
	f.appts.On("List", mock.Anything, sess).Return([]model.Appointment{}, nil)

	w := handlertest.Do(t, f.h, http.MethodGet, "/api/v1/analytics/report.pdf?date=2025-01-15", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReportsGenerated.WithLabelValues("error")))
}
