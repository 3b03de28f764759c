// Package analytics aggregates a day's appointments per doctor.
package analytics

import (
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

// SummaryDateLayout renders the summary heading, "January 15, 2025".
const SummaryDateLayout = "January 2, 2006"

type TypeStats struct {
	NewPatient int `json:"newPatient"`
	FollowUp   int `json:"followup"`
	Revisit    int `json:"revisit"`
}

type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type DoctorStats struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	Specialty string       `json:"specialty"`
	Total     int          `json:"total"`
	Stats     TypeStats    `json:"stats"`
	ChartData []ChartPoint `json:"chartData"`
}

type Summary struct {
	TotalAppointments int    `json:"totalAppointments"`
	NewPatients       int    `json:"newPatients"`
	Followups         int    `json:"followups"`
	Revisits          int    `json:"revisits"`
	Date              string `json:"date"`
	FormattedDate     string `json:"formattedDate"`
}

type Report struct {
	Doctors []DoctorStats `json:"doctors"`
	Summary Summary       `json:"summary"`
}

// Daily computes per-doctor counts for the calendar date of date. Appointments
// whose doctor is not on the roster are not counted. A doctor's total includes
// appointments with no recognised type.
func Daily(doctors []model.Doctor, appointments []model.Appointment, date time.Time) Report {
	day := date.Format(schedule.DateLayout)

	byDoctor := make(map[string][]*model.Appointment)
	for i := range appointments {
		a := &appointments[i]
		if a.Date == day {
			byDoctor[a.DoctorID()] = append(byDoctor[a.DoctorID()], a)
		}
	}

	report := Report{
		Doctors: make([]DoctorStats, 0, len(doctors)),
		Summary: Summary{Date: day, FormattedDate: date.Format(SummaryDateLayout)},
	}
	for _, d := range doctors {
		matched := byDoctor[d.ID]
		stats := countTypes(matched)

		report.Doctors = append(report.Doctors, DoctorStats{
			ID:        d.ID,
			Name:      d.Name,
			Specialty: d.Specialty,
			Total:     len(matched),
			Stats:     stats,
			ChartData: []ChartPoint{
				{Name: "New", Value: stats.NewPatient},
				{Name: "Follow-up", Value: stats.FollowUp},
				{Name: "Revisit", Value: stats.Revisit},
			},
		})

		report.Summary.TotalAppointments += len(matched)
		report.Summary.NewPatients += stats.NewPatient
		report.Summary.Followups += stats.FollowUp
		report.Summary.Revisits += stats.Revisit
	}
	return report
}

// TomorrowCounts counts appointments per doctor id on the day after date.
func TomorrowCounts(appointments []model.Appointment, date time.Time) map[string]int {
	tomorrow := date.AddDate(0, 0, 1).Format(schedule.DateLayout)

	counts := make(map[string]int)
	for i := range appointments {
		if appointments[i].Date == tomorrow {
			counts[appointments[i].DoctorID()]++
		}
	}
	return counts
}

func countTypes(appts []*model.Appointment) TypeStats {
	var s TypeStats
	for _, a := range appts {
		switch a.Type {
		case model.AppointmentTypeNewPatient:
			s.NewPatient++
		case model.AppointmentTypeFollowUp:
			s.FollowUp++
		case model.AppointmentTypeRevisit:
			s.Revisit++
		}
	}
	return s
}
