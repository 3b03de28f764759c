package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekday(t *testing.T) {
	t.Run("parse is case insensitive", func(t *testing.T) {
		d, err := ParseWeekday(" wednesday ")
		require.NoError(t, err)
		assert.Equal(t, Wednesday, d)

		_, err = ParseWeekday("Funday")
		assert.Error(t, err)
	})

	t.Run("monday first", func(t *testing.T) {
		// 2025-01-13 is a Monday, 2025-01-19 a Sunday
		assert.Equal(t, Monday, WeekdayOf(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, Sunday, WeekdayOf(time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("text encoding", func(t *testing.T) {
		b, err := json.Marshal(map[string]Weekday{"day": Friday})
		require.NoError(t, err)
		assert.JSONEq(t, `{"day":"Friday"}`, string(b))

		var out struct{ Day Weekday }
		require.NoError(t, json.Unmarshal([]byte(`{"Day":"Saturday"}`), &out))
		assert.Equal(t, Saturday, out.Day)
	})
}

func TestAvailability_AddAndRemove(t *testing.T) {
	var av Availability

	require.NoError(t, av.AddSlots(Monday, "9AM", "10AM"))
	require.NoError(t, av.AddSlots(Monday, "10AM", "11AM"))
	assert.Equal(t, []string{"9AM", "10AM", "11AM"}, av.Slots(Monday))
	assert.True(t, av.Has(Monday))
	assert.False(t, av.Has(Tuesday))

	assert.Error(t, av.AddSlots(Weekday(9), "9AM"))
	assert.Error(t, av.AddSlots(Tuesday, " "))

	av.RemoveDay(Monday)
	assert.False(t, av.Has(Monday))
	assert.True(t, av.IsEmpty())
}

func TestAvailability_SlotsReturnsCopy(t *testing.T) {
	var av Availability
	require.NoError(t, av.AddSlots(Friday, "9AM"))

	slots := av.Slots(Friday)
	slots[0] = "changed"

	assert.Equal(t, []string{"9AM"}, av.Slots(Friday))

	clone := av.Clone()
	clone[Friday][0] = "changed"
	assert.Equal(t, []string{"9AM"}, av.Slots(Friday))
}

func TestAvailability_Days(t *testing.T) {
	var av Availability
	require.NoError(t, av.AddSlots(Sunday, "9AM"))
	require.NoError(t, av.AddSlots(Monday, "9AM"))
	av[Wednesday] = []string{}

	assert.Equal(t, []Weekday{Monday, Sunday}, av.Days())
}

func TestAvailability_JSON(t *testing.T) {
	t.Run("decode drops duplicates and metadata", func(t *testing.T) {
		var av Availability
		err := json.Unmarshal([]byte(`{"Monday":["9AM","9AM","10AM"],"Tuesday":[],"_id":"x"}`), &av)
		require.NoError(t, err)

		assert.Equal(t, []string{"9AM", "10AM"}, av.Slots(Monday))
		assert.Equal(t, []Weekday{Monday}, av.Days())
	})

	t.Run("decode skips metadata of any shape", func(t *testing.T) {
		var av Availability
		err := json.Unmarshal([]byte(`{"_id":{"$oid":"x"},"__v":0,"Friday":["9AM"]}`), &av)
		require.NoError(t, err)
		assert.Equal(t, []string{"9AM"}, av.Slots(Friday))
	})

	t.Run("decode rejects non-list day", func(t *testing.T) {
		var av Availability
		err := json.Unmarshal([]byte(`{"Monday":"9AM"}`), &av)
		assert.Error(t, err)
	})

	t.Run("decode rejects unknown day", func(t *testing.T) {
		var av Availability
		err := json.Unmarshal([]byte(`{"Someday":["9AM"]}`), &av)
		assert.Error(t, err)
	})

	t.Run("encode omits empty days", func(t *testing.T) {
		var av Availability
		require.NoError(t, av.AddSlots(Thursday, "2PM"))
		av[Friday] = []string{}

		b, err := json.Marshal(av)
		require.NoError(t, err)
		assert.JSONEq(t, `{"Thursday":["2PM"]}`, string(b))
	})

	t.Run("doctor round trip", func(t *testing.T) {
		raw := `{"_id":"d1","name":"Dr. A","specialty":"ENT","appointmentsPerHour":4,
			"yearsOfExperience":10,"availability":{"Monday":["9AM","10AM"]}}`
		var d Doctor
		require.NoError(t, json.Unmarshal([]byte(raw), &d))
		assert.Equal(t, "d1", d.ID)
		assert.Equal(t, []string{"9AM", "10AM"}, d.Availability.Slots(Monday))
	})
}
