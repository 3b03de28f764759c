package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func report() *analytics.DailyReport {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	r := analytics.BuildDailyReport(
		[]model.Doctor{{ID: "A", Name: "Dr. A", Specialty: "ENT"}},
		[]model.Appointment{{Doctor: model.DoctorReference("A"), Date: "15/01/2025", Type: model.AppointmentTypeRevisit}},
		day, day,
	)
	return &r
}

func TestService_SendDailyReport(t *testing.T) {
	sender := &captureSender{}
	svc := NewServiceWithSender(sender, "reports@clinic.test", nil)

	err := svc.SendDailyReport(context.Background(), []string{"a@clinic.test", "b@clinic.test"}, report(), []byte("%PDF-1.3"), "daily-report-2025-01-15.pdf")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"a@clinic.test", "b@clinic.test"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Daily appointment report - January 15, 2025"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "daily-report-2025-01-15.pdf")
	assert.Contains(t, buf.String(), "Dr. A (ENT): 1 today, 0 tomorrow")
}

func TestService_SendDailyReportErrors(t *testing.T) {
	sender := &captureSender{err: errors.New("535 auth failed")}
	svc := NewServiceWithSender(sender, "reports@clinic.test", nil)

	err := svc.SendDailyReport(context.Background(), nil, report(), nil, "r.pdf")
	assert.Error(t, err)
	assert.Empty(t, sender.sent)

	err = svc.SendDailyReport(context.Background(), []string{"a@clinic.test"}, report(), nil, "r.pdf")
	assert.ErrorContains(t, err, "535 auth failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.SendDailyReport(ctx, []string{"a@clinic.test"}, report(), nil, "r.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}
