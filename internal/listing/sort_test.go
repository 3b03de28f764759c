package listing

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

func sorted(t *testing.T, items []model.Appointment, cfg SortConfig) []string {
	t.Helper()
	out := slices.Clone(items)
	require.NoError(t, SortAppointments(out, cfg))
	return ids(out)
}

func TestSortConfig_Toggle(t *testing.T) {
	c := SortConfig{Key: "time", Direction: Asc}

	c = c.Toggle("time")
	assert.Equal(t, SortConfig{Key: "time", Direction: Desc}, c)

	c = c.Toggle("time")
	assert.Equal(t, SortConfig{Key: "time", Direction: Asc}, c)

	c = c.Toggle("time").Toggle("date")
	assert.Equal(t, SortConfig{Key: "date", Direction: Asc}, c)
}

func TestSortAppointments_Time(t *testing.T) {
	items := fixture()

	asc := sorted(t, items, SortConfig{Key: "time", Direction: Asc})
	assert.Equal(t, []string{"a2", "a5", "a3", "a1", "a4"}, asc, "missing time sorts last")

	desc := sorted(t, items, SortConfig{Key: "time", Direction: Desc})
	assert.Equal(t, []string{"a4", "a1", "a3", "a5", "a2"}, desc)
}

func TestSortAppointments_DescendingIsExactReverse(t *testing.T) {
	items := fixture()
	for _, key := range []string{"time", "date", "patientName", "doctorName", "category", "status", "type", "location", "phone", "createdAt", "nonsense"} {
		asc := sorted(t, items, SortConfig{Key: key, Direction: Asc})
		desc := sorted(t, items, SortConfig{Key: key, Direction: Desc})
		slices.Reverse(desc)
		assert.Equal(t, asc, desc, key)
	}
}

func TestSortAppointments_Date(t *testing.T) {
	items := []model.Appointment{
		{ID: "late", Date: "15/01/2025"},
		{ID: "bad", Date: "someday"},
		{ID: "early", Date: "01/12/2024"},
		{ID: "none"},
		{ID: "mid", Date: "2/1/2025"},
	}

	got := sorted(t, items, SortConfig{Key: "date", Direction: Asc})
	assert.Equal(t, []string{"early", "mid", "late", "bad", "none"}, got)
}

func TestSortAppointments_FarFutureDate(t *testing.T) {
	items := []model.Appointment{
		{ID: "far", Date: "01/01/9999"},
		{ID: "early", Date: "01/12/2024"},
		{ID: "late", Date: "15/01/2025"},
	}

	assert.Equal(t, []string{"early", "late", "far"}, sorted(t, items, SortConfig{Key: "date", Direction: Asc}))
	assert.Equal(t, []string{"far", "late", "early"}, sorted(t, items, SortConfig{Key: "date", Direction: Desc}))
}

func TestSortAppointments_TextUsesCollation(t *testing.T) {
	items := []model.Appointment{
		{ID: "1", PatientName: "bob"},
		{ID: "2", PatientName: "Alice"},
		{ID: "3", PatientName: "alice"},
		{ID: "4", PatientName: "Émile"},
		{ID: "5", PatientName: "Zed"},
	}

	got := sorted(t, items, SortConfig{Key: "patientName", Direction: Asc})
	assert.Equal(t, []string{"3", "2", "1", "4", "5"}, got)
}

func TestSortAppointments_Fallback(t *testing.T) {
	items := []model.Appointment{
		{ID: "x", CreatedAt: model.NewTimestamp(fixedNow)},
		{ID: "y"},
		{ID: "z", CreatedAt: model.NewTimestamp(fixedNow.Add(-48 * time.Hour))},
	}

	got := sorted(t, items, SortConfig{Key: "createdAt", Direction: Asc})
	assert.Equal(t, []string{"y", "z", "x"}, got, "missing values read as empty strings and lead")

	got = sorted(t, items, SortConfig{Key: "id", Direction: Desc})
	assert.Equal(t, []string{"z", "y", "x"}, got)

	got = sorted(t, items, SortConfig{Key: "unknownColumn", Direction: Asc})
	assert.Equal(t, []string{"x", "y", "z"}, got, "unknown keys keep input order")
}

func TestSortAppointments_BadDirection(t *testing.T) {
	err := SortAppointments(fixture(), SortConfig{Key: "time", Direction: "up"})
	assert.Error(t, err)
}
