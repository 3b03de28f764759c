package schedule

import (
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// SlotsForDate returns the day's slots ordered by time of day.
func SlotsForDate(av model.Availability, day model.Weekday) []string {
	return sortLabels(av.Slots(day))
}

// BookingDates lists the next count dates a doctor can be booked on.
// A doctor without availability has no dates.
func BookingDates(doctor *model.Doctor, now time.Time, loc *time.Location, count int) ([]BookableDate, error) {
	days := doctor.Availability.Days()
	if len(days) == 0 {
		return []BookableDate{}, nil
	}
	return NextAvailableDates(now, loc, days, count)
}

// SlotsFor returns the ordered slots offered on a DD/MM/YYYY date.
func SlotsFor(doctor *model.Doctor, date string, loc *time.Location) ([]string, error) {
	t, err := ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	slots := SlotsForDate(doctor.Availability, model.WeekdayOf(t))
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

// Offers reports whether doctor takes bookings at label on date.
func Offers(doctor *model.Doctor, date, label string, loc *time.Location) bool {
	t, err := ParseDate(date, loc)
	if err != nil {
		return false
	}
	return contains(doctor.Availability.Slots(model.WeekdayOf(t)), label)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// TimeSlotSelection is the day/from/to triple picked in the doctor editor.
type TimeSlotSelection struct {
	Day  string `json:"day" binding:"required,weekday"`
	From string `json:"from" binding:"required,hhmm"`
	To   string `json:"to" binding:"required,hhmm"`
}

// Apply merges the hourly slots between From and To into av.
func (s TimeSlotSelection) Apply(av *model.Availability) error {
	if s.Day == "" || s.From == "" || s.To == "" {
		return fmt.Errorf("day, from and to are required")
	}
	day, err := model.ParseWeekday(s.Day)
	if err != nil {
		return err
	}
	slots, err := GenerateHourSlots(s.From, s.To)
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		return nil
	}
	return av.AddSlots(day, slots...)
}
