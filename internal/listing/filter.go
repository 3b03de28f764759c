package listing

import (
	"strings"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
)

// Filter returns the items for which keep is true, preserving order.
func Filter[T any](items []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// MatchesSearch is a case-insensitive substring match on the patient or doctor name.
func MatchesSearch(a *model.Appointment, term string) bool {
	if term == "" {
		return true
	}
	return containsFold(a.PatientName, term) || containsFold(a.DoctorName, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
