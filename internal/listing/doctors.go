package listing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// Doctor roster sort keys.
const (
	DoctorSortName       = "name"
	DoctorSortSpecialty  = "specialty"
	DoctorSortExperience = "experience"
)

// Doctors returns the roster filtered by name or specialty and ordered by
// sortBy: name and specialty A to Z, experience most first.
func Doctors(doctors []model.Doctor, search, sortBy string) ([]model.Doctor, error) {
	if sortBy == "" {
		sortBy = DoctorSortName
	}

	out := Filter(doctors, func(d *model.Doctor) bool {
		return search == "" || containsFold(d.Name, search) || containsFold(d.Specialty, search)
	})

	col := newCollator()
	var less func(a, b *model.Doctor) bool
	switch sortBy {
	case DoctorSortName:
		less = func(a, b *model.Doctor) bool { return col.CompareString(a.Name, b.Name) < 0 }
	case DoctorSortSpecialty:
		less = func(a, b *model.Doctor) bool { return col.CompareString(a.Specialty, b.Specialty) < 0 }
	case DoctorSortExperience:
		less = func(a, b *model.Doctor) bool { return a.YearsOfExperience > b.YearsOfExperience }
	default:
		return nil, fmt.Errorf("unknown doctor sort %q", sortBy)
	}

	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out, nil
}

// Initials is the avatar text for a doctor, "Asha Rao" -> "AR".
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}
