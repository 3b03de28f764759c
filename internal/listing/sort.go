package listing

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, nil
	case "":
		return Asc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

type SortConfig struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle flips the direction when key is already selected, otherwise it
// selects key ascending.
func (c SortConfig) Toggle(key string) SortConfig {
	if c.Key == key && c.Direction == Asc {
		return SortConfig{Key: key, Direction: Desc}
	}
	return SortConfig{Key: key, Direction: Asc}
}

// newCollator returns an English collator. Collators are not safe for
// concurrent use, so every sort builds its own.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// compareFunc orders a before b ascending when it returns a negative number.
type compareFunc func(a, b *model.Appointment) int

// SortAppointments orders items in place. Descending is the exact reverse of
// the stable ascending order.
func SortAppointments(items []model.Appointment, cfg SortConfig) error {
	if cfg.Key == "" {
		return nil
	}
	if _, err := ParseDirection(string(cfg.Direction)); err != nil {
		return err
	}

	cmp := comparator(cfg.Key, newCollator())
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(&items[i], &items[j]) < 0
	})
	if cfg.Direction == Desc {
		slices.Reverse(items)
	}
	return nil
}

func comparator(key string, col *collate.Collator) compareFunc {
	text := func(get func(*model.Appointment) string) compareFunc {
		return func(a, b *model.Appointment) int {
			return col.CompareString(get(a), get(b))
		}
	}

	switch key {
	case "time":
		return missingLast(startTime)
	case "date":
		return missingLast(appointmentDate)
	case "patientName":
		return text(func(a *model.Appointment) string { return a.PatientName })
	case "doctorName":
		return text(func(a *model.Appointment) string { return a.DoctorName })
	case "category":
		return text(func(a *model.Appointment) string { return a.Category })
	case "status":
		return text(func(a *model.Appointment) string { return string(a.Status) })
	case "type":
		return text(func(a *model.Appointment) string { return string(a.Type) })
	case "location":
		return text(func(a *model.Appointment) string { return a.Location })
	default:
		return func(a, b *model.Appointment) int {
			return compareValues(col, fieldValue(a, key), fieldValue(b, key))
		}
	}
}

// missingLast compares optional keys; absent values go after present ones.
func missingLast[K cmp.Ordered](get func(*model.Appointment) (K, bool)) compareFunc {
	return func(a, b *model.Appointment) int {
		va, okA := get(a)
		vb, okB := get(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return cmp.Compare(va, vb)
	}
}

func startTime(a *model.Appointment) (time.Duration, bool) {
	if a.Time == "" {
		return 0, false
	}
	return schedule.ParseTimeOfDay(schedule.StartOfRange(a.Time))
}

// appointmentDate is the day in Unix seconds.
func appointmentDate(a *model.Appointment) (int64, bool) {
	if a.Date == "" {
		return 0, false
	}
	t, err := schedule.ParseDate(a.Date, time.UTC)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

// fieldValue backs the generic column sort. Unknown columns read as "".
func fieldValue(a *model.Appointment, key string) interface{} {
	switch key {
	case "id", "_id":
		return a.ID
	case "phone":
		return a.Phone
	case "referredBy":
		return a.ReferredBy
	case "day":
		return a.Day
	case "timezone":
		return a.Timezone
	case "createdAt":
		if a.CreatedAt == nil {
			return ""
		}
		return a.CreatedAt.Unix()
	}
	return ""
}

// compareValues compares strings by collation and numbers numerically.
// A string sorts before a number.
func compareValues(col *collate.Collator, a, b interface{}) int {
	sa, aStr := a.(string)
	sb, bStr := b.(string)
	switch {
	case aStr && bStr:
		return col.CompareString(sa, sb)
	case aStr:
		return -1
	case bStr:
		return 1
	}

	na, nb := a.(int64), b.(int64)
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}
