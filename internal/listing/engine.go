// Package listing filters, orders and pages the dashboard's in-memory lists.
package listing

import (
	"fmt"
	"time"

	"github.com/jwalitptl/clinic-dashboard/internal/model"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

type ViewMode string

const (
	ViewToday ViewMode = "today"
	ViewDate  ViewMode = "date"
	ViewAll   ViewMode = "all"
)

// AllDoctors disables the doctor filter.
const AllDoctors = "all"

// PageSize is the appointment table page length.
const PageSize = 25

func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(s); m {
	case ViewToday, ViewDate, ViewAll:
		return m, nil
	case "":
		return ViewToday, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Query is everything the appointment table is computed from.
type Query struct {
	Search   string
	View     ViewMode
	Date     string // YYYY-MM-DD, used by ViewDate
	DoctorID string
	Sort     SortConfig
	Page     int
}

// DefaultQuery is the table's initial state.
func DefaultQuery() Query {
	return Query{
		View:     ViewToday,
		DoctorID: AllDoctors,
		Sort:     SortConfig{Key: "time", Direction: Asc},
		Page:     1,
	}
}

type Result struct {
	Items      []model.Appointment `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
	Pages      []int               `json:"pages,omitempty"`
	Sort       SortConfig          `json:"sort"`
}

// Run applies filter, sort and pagination to items. items is not modified.
func Run(items []model.Appointment, q Query, now time.Time, loc *time.Location) (*Result, error) {
	if q.View == "" {
		q.View = ViewToday
	}
	if q.DoctorID == "" {
		q.DoctorID = AllDoctors
	}
	if q.Sort.Direction == "" {
		q.Sort.Direction = Asc
	}

	pred, err := q.predicate(now, loc)
	if err != nil {
		return nil, err
	}
	filtered := Filter(items, pred)

	if err := SortAppointments(filtered, q.Sort); err != nil {
		return nil, err
	}

	totalPages := TotalPages(len(filtered), PageSize)
	return &Result{
		Items:      Paginate(filtered, q.Page, PageSize),
		Total:      len(filtered),
		Page:       q.Page,
		PageSize:   PageSize,
		TotalPages: totalPages,
		Pages:      PageWindow(q.Page, totalPages, DefaultWindow),
		Sort:       q.Sort,
	}, nil
}

func (q Query) predicate(now time.Time, loc *time.Location) (func(*model.Appointment) bool, error) {
	var date string
	switch q.View {
	case ViewToday:
		date = schedule.Today(now, loc)
	case ViewDate:
		d, err := schedule.ISOToDisplay(q.Date)
		if err != nil {
			return nil, err
		}
		date = d
	case ViewAll:
	default:
		return nil, fmt.Errorf("unknown view mode %q", q.View)
	}

	return func(a *model.Appointment) bool {
		return MatchesSearch(a, q.Search) &&
			(date == "" || a.Date == date) &&
			(q.DoctorID == AllDoctors || a.DoctorID() == q.DoctorID)
	}, nil
}
