package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_PrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "clinic", "api")

	m.BackendRequests.WithLabelValues("list_doctors", "ok").Inc()
	m.BackendRequests.WithLabelValues("list_doctors", "ok").Inc()
	m.AppointmentsBooked.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if metric.GetCounter() != nil {
				values[f.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["clinic_api_backend_requests_total"])
	assert.Equal(t, 1.0, values["clinic_api_appointments_booked_total"])
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("clinic")
		New("clinic")
	})
}
