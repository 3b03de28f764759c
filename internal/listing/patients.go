package listing

import (
	"slices"
	"sort"
	"strings"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// PatientPageSize is the patient list page length.
const PatientPageSize = 5

type PatientQuery struct {
	Search    string
	SortField string
	Direction Direction
	Page      int
}

type PatientPage struct {
	Items      []model.Patient `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	Pages      []int           `json:"pages,omitempty"`
	Sort       SortConfig      `json:"sort"`
}

// Patients filters by name, phone or location, orders by q.SortField
// (createdAt chronologically, anything else case-insensitively) and pages.
func Patients(patients []model.Patient, q PatientQuery) (*PatientPage, error) {
	if q.SortField == "" {
		q.SortField = "name"
	}
	dir, err := ParseDirection(string(q.Direction))
	if err != nil {
		return nil, err
	}
	if q.Page == 0 {
		q.Page = 1
	}

	out := Filter(patients, func(p *model.Patient) bool {
		return q.Search == "" ||
			containsFold(p.Name, q.Search) ||
			strings.Contains(p.Phone, q.Search) ||
			containsFold(p.Location, q.Search)
	})

	if q.SortField == "createdAt" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Unix() < out[j].CreatedAt.Unix()
		})
	} else {
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			a := strings.ToLower(patientField(&out[i], q.SortField))
			b := strings.ToLower(patientField(&out[j], q.SortField))
			return col.CompareString(a, b) < 0
		})
	}
	if dir == Desc {
		slices.Reverse(out)
	}

	totalPages := TotalPages(len(out), PatientPageSize)
	return &PatientPage{
		Items:      Paginate(out, q.Page, PatientPageSize),
		Total:      len(out),
		Page:       q.Page,
		PageSize:   PatientPageSize,
		TotalPages: totalPages,
		Pages:      PageWindow(q.Page, totalPages, DefaultWindow),
		Sort:       SortConfig{Key: q.SortField, Direction: dir},
	}, nil
}

func patientField(p *model.Patient, field string) string {
	switch field {
	case "name":
		return p.Name
	case "location":
		return p.Location
	case "phone":
		return p.Phone
	case "referredBy":
		return p.ReferredBy
	case "medicalHistory":
		return strings.Join(p.MedicalHistory, ",")
	case "id", "_id":
		return p.ID
	}
	return ""
}
