package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type AppointmentStatus string

const (
	AppointmentStatusUnset     AppointmentStatus = ""
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// ParseAppointmentStatus accepts only the three settable statuses.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(strings.TrimSpace(s)); st {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid appointment status %q", s)
}

type AppointmentType string

const (
	AppointmentTypeNewPatient AppointmentType = "New Patient"
	AppointmentTypeRevisit    AppointmentType = "Revisit"
	AppointmentTypeFollowUp   AppointmentType = "Follow-up"
)

// Display defaults applied when the backend omits a reference.
const (
	UnknownDoctor   = "Unknown Doctor"
	UnknownPatient  = "Unknown Patient"
	DefaultCategory = "General"
	DefaultLocation = "Main Clinic"
	DefaultTimezone = "Asia/Kolkata"
)

// DoctorRef is either a bare doctor id or the populated doctor document.
type DoctorRef struct {
	id     string
	doctor *Doctor
}

func DoctorReference(id string) DoctorRef { return DoctorRef{id: id} }

func EmbeddedDoctor(d *Doctor) DoctorRef { return DoctorRef{doctor: d} }

func (r DoctorRef) ID() string {
	if r.doctor != nil {
		return r.doctor.ID
	}
	return r.id
}

// Doctor returns the embedded doctor, nil for a bare reference.
func (r DoctorRef) Doctor() *Doctor { return r.doctor }

func (r DoctorRef) IsZero() bool { return r.id == "" && r.doctor == nil }

func (r DoctorRef) MarshalJSON() ([]byte, error) {
	if r.doctor != nil {
		return json.Marshal(r.doctor)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *DoctorRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = DoctorRef{}
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = DoctorReference(id)
	default:
		var d Doctor
		if err := json.Unmarshal(b, &d); err != nil {
			return fmt.Errorf("doctor reference: %w", err)
		}
		*r = EmbeddedDoctor(&d)
	}
	return nil
}

// PatientRef is either a bare patient id or the populated {name, location} object.
type PatientRef struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	embedded bool
}

func (r PatientRef) Embedded() bool { return r.embedded }

func (r PatientRef) MarshalJSON() ([]byte, error) {
	if !r.embedded {
		if r.ID == "" {
			return []byte("null"), nil
		}
		return json.Marshal(r.ID)
	}
	type plain PatientRef
	return json.Marshal(plain(r))
}

func (r *PatientRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*r = PatientRef{}
	case len(b) > 0 && b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = PatientRef{ID: id}
	default:
		type plain PatientRef
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return fmt.Errorf("patient reference: %w", err)
		}
		*r = PatientRef(p)
		r.embedded = true
	}
	return nil
}

type Appointment struct {
	ID          string            `json:"_id"`
	Doctor      DoctorRef         `json:"doctorId"`
	Patient     PatientRef        `json:"patientId"`
	PatientName string            `json:"patientName"`
	Date        string            `json:"date"`
	Day         string            `json:"day,omitempty"`
	Time        string            `json:"time"`
	Type        AppointmentType   `json:"type,omitempty"`
	Status      AppointmentStatus `json:"status,omitempty"`
	Location    string            `json:"location,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	ReferredBy  string            `json:"referredBy,omitempty"`
	Timezone    string            `json:"timezone,omitempty"`
	DoctorName  string            `json:"doctorName"`
	Category    string            `json:"category"`
	CreatedAt   *Timestamp        `json:"createdAt,omitempty"`
}

// DoctorID resolves the doctor reference whether or not it is populated.
func (a *Appointment) DoctorID() string {
	return a.Doctor.ID()
}

// Normalize fills the display fields from the populated references, falling
// back to the clinic defaults.
func (a *Appointment) Normalize() {
	if d := a.Doctor.Doctor(); d != nil {
		a.DoctorName = d.Name
		a.Category = d.Specialty
	}
	if a.DoctorName == "" {
		a.DoctorName = UnknownDoctor
	}
	if a.Category == "" {
		a.Category = DefaultCategory
	}

	if a.Patient.Embedded() && a.Patient.Name != "" {
		a.PatientName = a.Patient.Name
	}
	if a.PatientName == "" {
		a.PatientName = UnknownPatient
	}

	if a.Patient.Embedded() && a.Patient.Location != "" {
		a.Location = a.Patient.Location
	}
	if a.Location == "" {
		a.Location = DefaultLocation
	}
}

type CreateAppointmentRequest struct {
	DoctorID    string          `json:"doctorId" binding:"required"`
	Date        string          `json:"date" binding:"required,ddmmyyyy"`
	Day         string          `json:"day"`
	Time        string          `json:"time" binding:"required"`
	PatientName string          `json:"patientName" binding:"required"`
	Phone       string          `json:"phone" binding:"required"`
	Location    string          `json:"location"`
	ReferredBy  string          `json:"referredBy"`
	Type        AppointmentType `json:"type" binding:"omitempty,oneof='New Patient' Revisit Follow-up"`
	Timezone    string          `json:"timezone"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Scheduled Completed Cancelled"`
}

// SanitizePhone keeps digits only and truncates to ten, matching the booking form.
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if b.Len() == 10 {
				break
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
