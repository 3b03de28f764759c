package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

const (
	// DateLayout is the DD/MM/YYYY form the backend stores.
	DateLayout = "02/01/2006"
	// ISODateLayout is what date pickers send.
	ISODateLayout = "2006-01-02"

	DefaultBookingDays = 10
)

var ErrNoAvailableDays = errors.New("doctor has no available weekdays")

type BookableDate struct {
	Date string        `json:"date"`
	Day  model.Weekday `json:"day"`
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FormatDate renders t as DD/MM/YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Today is the current date in loc as DD/MM/YYYY.
func Today(now time.Time, loc *time.Location) string {
	return FormatDate(now, loc)
}

// ParseDate reads DD/MM/YYYY, tolerating missing zero padding, as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2/1/2006", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want DD/MM/YYYY", s)
	}
	return t, nil
}

// ISOToDisplay converts YYYY-MM-DD into DD/MM/YYYY.
func ISOToDisplay(iso string) (string, error) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(iso))
	if err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", iso)
	}
	return t.Format(DateLayout), nil
}

// NextAvailableDates walks forward from today in loc and returns the first
// count dates whose weekday is in days, in increasing order.
func NextAvailableDates(now time.Time, loc *time.Location, days []model.Weekday, count int) ([]BookableDate, error) {
	dates := make([]BookableDate, 0, max(count, 0))
	if count <= 0 {
		return dates, nil
	}

	var set [7]bool
	found := false
	for _, d := range days {
		if d.Valid() {
			set[d] = true
			found = true
		}
	}
	if !found {
		return nil, ErrNoAvailableDays
	}

	cur := StartOfDay(now, loc)
	for i := 0; i < 7*count && len(dates) < count; i++ {
		day := model.WeekdayOf(cur)
		if set[day] {
			dates = append(dates, BookableDate{Date: cur.Format(DateLayout), Day: day})
		}
		cur = cur.AddDate(0, 0, 1)
	}
	return dates, nil
}
