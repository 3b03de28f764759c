package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday indexes the week starting on Monday, the order the clinic roster uses.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AllWeekdays lists every weekday in canonical order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParseWeekday accepts full English day names, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for i, name := range weekdayNames {
		if strings.EqualFold(s, name) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// WeekdayOf returns the weekday of t in t's own location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Availability maps each weekday to the time-slot labels a doctor accepts.
// A day with no slots and a day without an entry are the same thing.
type Availability [7][]string

// AddSlots merges labels into day. Duplicates are dropped and existing
// labels keep their position.
func (a *Availability) AddSlots(day Weekday, labels ...string) error {
	if !day.Valid() {
		return fmt.Errorf("invalid weekday %d", int(day))
	}
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("empty slot label for %s", day)
		}
	}
	a[day] = union(a[day], labels)
	return nil
}

// RemoveDay drops every slot for day.
func (a *Availability) RemoveDay(day Weekday) {
	if day.Valid() {
		a[day] = nil
	}
}

// Slots returns a copy of the labels for day.
func (a Availability) Slots(day Weekday) []string {
	if !day.Valid() || len(a[day]) == 0 {
		return nil
	}
	out := make([]string, len(a[day]))
	copy(out, a[day])
	return out
}

func (a Availability) Has(day Weekday) bool {
	return day.Valid() && len(a[day]) > 0
}

// Days returns the weekdays that have at least one slot, Monday first.
func (a Availability) Days() []Weekday {
	var days []Weekday
	for _, d := range AllWeekdays {
		if len(a[d]) > 0 {
			days = append(days, d)
		}
	}
	return days
}

func (a Availability) IsEmpty() bool {
	return len(a.Days()) == 0
}

func (a Availability) Clone() Availability {
	var out Availability
	for _, d := range AllWeekdays {
		out[d] = a.Slots(d)
	}
	return out
}

// MarshalJSON writes {"Monday": [...]} and omits days without slots.
func (a Availability) MarshalJSON() ([]byte, error) {
	m := make(map[string][]string, 7)
	for _, d := range a.Days() {
		m[d.String()] = a[d]
	}
	return json.Marshal(m)
}

// UnmarshalJSON rejects unknown day names. Keys starting with "_" are
// document metadata added by the backend and are skipped.
func (a *Availability) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("availability: %w", err)
	}

	var out Availability
	for key, value := range raw {
		if strings.HasPrefix(key, "_") {
			continue
		}
		day, err := ParseWeekday(key)
		if err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		var labels []string
		if err := json.Unmarshal(value, &labels); err != nil {
			return fmt.Errorf("availability: %s: %w", key, err)
		}
		out[day] = union(out[day], labels)
	}
	*a = out
	return nil
}

func union(existing, add []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, l := range append(append([]string(nil), existing...), add...) {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
