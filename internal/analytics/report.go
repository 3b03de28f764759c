package analytics

import (
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

// DailyReport is today's analytics plus tomorrow's bookings per doctor.
type DailyReport struct {
	Report
	TomorrowDate  string         `json:"tomorrowDate"`
	Tomorrow      map[string]int `json:"tomorrow"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	TomorrowTotal int            `json:"tomorrowTotal"`
}

// BuildDailyReport assembles the report for date, which should already be in
// the clinic's reference zone.
func BuildDailyReport(doctors []model.Doctor, appointments []model.Appointment, date, generatedAt time.Time) DailyReport {
	tomorrow := TomorrowCounts(appointments, date)

	total := 0
	for _, d := range doctors {
		total += tomorrow[d.ID]
	}

	return DailyReport{
		Report:        Daily(doctors, appointments, date),
		TomorrowDate:  date.AddDate(0, 0, 1).Format(schedule.DateLayout),
		Tomorrow:      tomorrow,
		GeneratedAt:   generatedAt,
		TomorrowTotal: total,
	}
}

// TomorrowFor returns the count for a doctor, zero when none are booked.
func (r DailyReport) TomorrowFor(doctorID string) int {
	return r.Tomorrow[doctorID]
}
