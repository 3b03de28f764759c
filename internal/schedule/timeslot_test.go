package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTo12Hour(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12AM"},
		{"00:45", "12AM"},
		{"09:00", "9AM"},
		{"9:30", "9AM"},
		{"11:59", "11AM"},
		{"12:00", "12PM"},
		{"13:00", "1PM"},
		{"23:00", "11PM"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatTo12Hour(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "9AM", "25:00", "ab:cd"} {
		_, err := FormatTo12Hour(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenerateHourSlots(t *testing.T) {
	t.Run("inclusive range", func(t *testing.T) {
		slots, err := GenerateHourSlots("09:00", "12:00")
		require.NoError(t, err)
		assert.Equal(t, []string{"9AM", "10AM", "11AM", "12PM"}, slots)
	})

	t.Run("minutes ignored", func(t *testing.T) {
		slots, err := GenerateHourSlots("09:30", "10:15")
		require.NoError(t, err)
		assert.Equal(t, []string{"9AM", "10AM"}, slots)
	})

	t.Run("single hour", func(t *testing.T) {
		slots, err := GenerateHourSlots("14:00", "14:00")
		require.NoError(t, err)
		assert.Equal(t, []string{"2PM"}, slots)
	})

	t.Run("end before start is empty", func(t *testing.T) {
		slots, err := GenerateHourSlots("14:00", "13:00")
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("whole day", func(t *testing.T) {
		slots, err := GenerateHourSlots("00:00", "23:00")
		require.NoError(t, err)
		assert.Len(t, slots, 24)
		assert.Equal(t, "12AM", slots[0])
		assert.Equal(t, "12PM", slots[12])
		assert.Equal(t, "11PM", slots[23])
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := GenerateHourSlots("nine", "12:00")
		assert.Error(t, err)
		_, err = GenerateHourSlots("09:00", "")
		assert.Error(t, err)
	})
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"9AM", 9 * time.Hour, true},
		{"9 AM", 9 * time.Hour, true},
		{"9am", 9 * time.Hour, true},
		{"12AM", 0, true},
		{"12PM", 12 * time.Hour, true},
		{"9:30AM", 9*time.Hour + 30*time.Minute, true},
		{"9:00 PM", 21 * time.Hour, true},
		{"09:00", 9 * time.Hour, true},
		{"17:45", 17*time.Hour + 45*time.Minute, true},
		{"", 0, false},
		{"noon", 0, false},
		{"13PM", 0, false},
		{"9", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimeOfDay(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStartOfRange(t *testing.T) {
	assert.Equal(t, "9AM", StartOfRange("9AM - 12PM"))
	assert.Equal(t, "9AM", StartOfRange("9AM"))
	assert.Equal(t, "", StartOfRange(""))
}

func TestHalfHourSlots(t *testing.T) {
	slots := HalfHourSlots()

	assert.Len(t, slots, 48)
	assert.Equal(t, "00:00", slots[0])
	assert.Equal(t, "00:30", slots[1])
	assert.Equal(t, "23:30", slots[47])
}

func TestDescribeRange(t *testing.T) {
	assert.Equal(t, "", DescribeRange(nil))
	assert.Equal(t, "9AM", DescribeRange([]string{"9AM"}))
	assert.Equal(t, "9AM - 2PM", DescribeRange([]string{"2PM", "9AM", "11AM"}))
}
