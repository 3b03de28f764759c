package model

type Doctor struct {
	ID                      string       `json:"_id,omitempty"`
	Name                    string       `json:"name" binding:"required"`
	Specialty               string       `json:"specialty" binding:"required"`
	AppointmentsPerHour     int          `json:"appointmentsPerHour" binding:"gte=1"`
	YearsOfExperience       int          `json:"yearsOfExperience" binding:"gte=0"`
	EducationCertifications string       `json:"educationCertifications,omitempty"`
	Availability            Availability `json:"availability"`
}

// DoctorSummary is the roster row: the doctor plus a readable slot range per day.
type DoctorSummary struct {
	Doctor
	Initials      string            `json:"initials"`
	AvailableDays []Weekday         `json:"availableDays"`
	Ranges        map[string]string `json:"ranges,omitempty"`
}
