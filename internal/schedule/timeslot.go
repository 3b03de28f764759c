package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Layouts accepted for slot labels after spaces are stripped and the
// meridiem is upper-cased: "9AM", "9:30AM", "09:00", "9:00:00".
var timeOfDayLayouts = []string{
	"3PM",
	"3:04PM",
	"3:04:05PM",
	"15:04",
	"15:04:05",
}

// ParseTimeOfDay reads a slot label and returns its offset from midnight.
func ParseTimeOfDay(label string) (time.Duration, bool) {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if s == "" {
		return 0, false
	}
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Duration(t.Hour())*time.Hour +
			time.Duration(t.Minute())*time.Minute +
			time.Duration(t.Second())*time.Second, true
	}
	return 0, false
}

// FormatTo12Hour turns "HH:MM" into an hour label such as "9AM". Minutes are dropped.
func FormatTo12Hour(hhmm string) (string, error) {
	h, err := parseHour(hhmm)
	if err != nil {
		return "", err
	}
	return HourLabel(h), nil
}

// HourLabel formats an hour of the day (0-23) as "12AM".."11PM".
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12AM"
	case h < 12:
		return fmt.Sprintf("%dAM", h)
	case h == 12:
		return "12PM"
	default:
		return fmt.Sprintf("%dPM", h-12)
	}
}

// GenerateHourSlots returns one label per whole hour from from's hour through
// to's hour inclusive. There is no wraparound past midnight: an end before
// the start yields no slots.
func GenerateHourSlots(from, to string) ([]string, error) {
	start, err := parseHour(from)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	end, err := parseHour(to)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	slots := make([]string, 0, max(end-start+1, 0))
	for h := start; h <= end; h++ {
		slots = append(slots, HourLabel(h))
	}
	return slots, nil
}

// StartOfRange returns the first label of a range such as "9AM - 12PM".
func StartOfRange(label string) string {
	start, _, _ := strings.Cut(label, "-")
	return strings.TrimSpace(start)
}

// HalfHourSlots lists "00:00", "00:30" ... "23:30", the choices offered when
// editing a doctor's day.
func HalfHourSlots() []string {
	out := make([]string, 0, 48)
	for h := 0; h < 24; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return out
}

// DescribeRange summarises slots as "first - last" in time order.
func DescribeRange(slots []string) string {
	sorted := sortLabels(slots)
	switch len(sorted) {
	case 0:
		return ""
	case 1:
		return sorted[0]
	default:
		return sorted[0] + " - " + sorted[len(sorted)-1]
	}
}

func parseHour(hhmm string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", hhmm)
	}
	return t.Hour(), nil
}

// sortLabels copies labels and orders them by time of day. Labels that do
// not parse keep their relative order after the ones that do.
func sortLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)

	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := ParseTimeOfDay(out[i])
		tj, okJ := ParseTimeOfDay(out[j])
		switch {
		case okI && okJ:
			return ti < tj
		case okI:
			return true
		default:
			return false
		}
	})
	return out
}
