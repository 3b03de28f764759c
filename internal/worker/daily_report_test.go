package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/pkg/metrics"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type stubSource struct {
	report *analytics.DailyReport
	err    error
	dates  []string
}

func (s *stubSource) Report(_ context.Context, _ *model.Session, isoDate string) (*analytics.DailyReport, error) {
	s.dates = append(s.dates, isoDate)
	return s.report, s.err
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendDailyReport(ctx context.Context, to []string, r *analytics.DailyReport, pdf []byte, filename string) error {
	return m.Called(ctx, to, r, pdf, filename).Error(0)
}

func sample() *analytics.DailyReport {
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, ist)
	r := analytics.BuildDailyReport([]model.Doctor{{ID: "A", Name: "Dr. A"}}, nil, day, day)
	return &r
}

func TestDailyReportWorker_NextRun(t *testing.T) {
	w, err := NewDailyReportWorker(DailyReportConfig{SendAt: "18:30", Location: ist}, &stubSource{}, nil, nil, nil)
	require.NoError(t, err)

	before := time.Date(2025, 1, 15, 9, 0, 0, 0, ist)
	assert.Equal(t, time.Date(2025, 1, 15, 18, 30, 0, 0, ist), w.NextRun(before))

	at := time.Date(2025, 1, 15, 18, 30, 0, 0, ist)
	assert.Equal(t, time.Date(2025, 1, 16, 18, 30, 0, 0, ist), w.NextRun(at))

	// 23:00 UTC on the 31st is already 1 February in IST
	utc := time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 1, 18, 30, 0, 0, ist), w.NextRun(utc))
}

func TestNewDailyReportWorker_BadSendAt(t *testing.T) {
	_, err := NewDailyReportWorker(DailyReportConfig{SendAt: "6pm"}, &stubSource{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestDailyReportWorker_RunOnce(t *testing.T) {
	dir := t.TempDir()
	src := &stubSource{report: sample()}
	mailer := new(mockMailer)
	mailer.On("SendDailyReport", mock.Anything, []string{"ops@clinic.test"}, src.report, mock.Anything, "daily-report-2025-01-15.pdf").Return(nil)

	w, err := NewDailyReportWorker(DailyReportConfig{
		SendAt:     "18:30",
		Location:   ist,
		Recipients: []string{"ops@clinic.test"},
		OutputDir:  filepath.Join(dir, "reports"),
		Clinic:     "City Clinic",
	}, src, mailer, metrics.New("test"), nil)
	require.NoError(t, err)

	res, err := w.RunOnce(context.Background(), "2025-01-15")
	require.NoError(t, err)
	assert.True(t, res.Mailed)
	assert.Equal(t, []string{"2025-01-15"}, src.dates)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data[:5]))
	mailer.AssertExpectations(t)
}

func TestDailyReportWorker_RunOnceErrors(t *testing.T) {
	w, err := NewDailyReportWorker(DailyReportConfig{SendAt: "18:30"}, &stubSource{err: errors.New("backend down")}, nil, nil, nil)
	require.NoError(t, err)
	_, err = w.RunOnce(context.Background(), "")
	assert.ErrorContains(t, err, "backend down")

	mailer := new(mockMailer)
	mailer.On("SendDailyReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp refused"))
	w, err = NewDailyReportWorker(DailyReportConfig{SendAt: "18:30", Recipients: []string{"a@b.c"}}, &stubSource{report: sample()}, mailer, nil, nil)
	require.NoError(t, err)
	res, err := w.RunOnce(context.Background(), "")
	assert.ErrorContains(t, err, "smtp refused")
	require.NotNil(t, res)
	assert.False(t, res.Mailed)
}

func TestDailyReportWorker_StartStopsOnCancel(t *testing.T) {
	w, err := NewDailyReportWorker(DailyReportConfig{SendAt: "18:30"}, &stubSource{}, nil, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
