package model

import "strings"

type Patient struct {
	ID             string     `json:"_id,omitempty"`
	Name           string     `json:"name"`
	Location       string     `json:"location"`
	Phone          string     `json:"phone"`
	MedicalHistory []string   `json:"medicalHistory"`
	ReferredBy     string     `json:"referredBy,omitempty"`
	CreatedAt      *Timestamp `json:"createdAt,omitempty"`
}

type CreatePatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	// MedicalHistory may be sent as a list or as one comma-separated string.
	MedicalHistory     []string `json:"medicalHistory"`
	MedicalHistoryText string   `json:"medicalHistoryText"`
	ReferredBy         string   `json:"referredBy"`
}

// ToPatient builds the backend payload, splitting the comma-separated history.
func (r *CreatePatientRequest) ToPatient() *Patient {
	history := make([]string, 0, len(r.MedicalHistory))
	for _, h := range r.MedicalHistory {
		if h = strings.TrimSpace(h); h != "" {
			history = append(history, h)
		}
	}
	history = append(history, SplitHistory(r.MedicalHistoryText)...)

	return &Patient{
		Name:           strings.TrimSpace(r.Name),
		Location:       strings.TrimSpace(r.Location),
		Phone:          strings.TrimSpace(r.Phone),
		MedicalHistory: history,
		ReferredBy:     strings.TrimSpace(r.ReferredBy),
	}
}

// SplitHistory turns "asthma, diabetes" into ["asthma", "diabetes"].
func SplitHistory(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
