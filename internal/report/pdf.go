// Package report renders the daily appointment report.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/internal/schedule"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Doctor", 50, "L"},
	{"Specialty", 40, "L"},
	{"Total", 18, "C"},
	{"New", 18, "C"},
	{"Follow-up", 22, "C"},
	{"Revisit", 18, "C"},
	{"Tomorrow", 24, "C"},
}

// FileName is the attachment name for the report, daily-report-2025-01-15.pdf.
func FileName(r *analytics.DailyReport) string {
	day, err := time.Parse(schedule.DateLayout, r.Summary.Date)
	if err != nil {
		return "daily-report.pdf"
	}
	return "daily-report-" + day.Format(schedule.ISODateLayout) + ".pdf"
}

// RenderPDF lays the report out on A4: a heading, the day's totals and one
// row per doctor with tomorrow's bookings alongside.
func RenderPDF(r *analytics.DailyReport, clinic string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetTitle("Daily appointment report "+r.Summary.Date, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 10, tr(clinic), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Daily Appointment Report - "+r.Summary.FormattedDate, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, "Generated "+r.GeneratedAt.Format("02/01/2006 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Summary", "1", 1, "C", false, 0, "")
	summaryRow(pdf, "Total appointments", r.Summary.TotalAppointments)
	summaryRow(pdf, "New patients", r.Summary.NewPatients)
	summaryRow(pdf, "Follow-ups", r.Summary.Followups)
	summaryRow(pdf, "Revisits", r.Summary.Revisits)
	summaryRow(pdf, "Booked for "+r.TomorrowDate, r.TomorrowTotal)
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 236, 250)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(r.Doctors) == 0 {
		pdf.CellFormat(0, 8, "No doctors on the roster", "1", 1, "C", false, 0, "")
	}
	for i, d := range r.Doctors {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		cells := []string{
			tr(d.Name),
			tr(d.Specialty),
			strconv.Itoa(d.Total),
			strconv.Itoa(d.Stats.NewPatient),
			strconv.Itoa(d.Stats.FollowUp),
			strconv.Itoa(d.Stats.Revisit),
			strconv.Itoa(r.TomorrowFor(d.ID)),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 8, cells[j], "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetY(pdf.GetY() + 10)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "This is a computer generated report", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryRow(pdf *gofpdf.Fpdf, label string, value int) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(60, 8, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, strconv.Itoa(value), "1", 1, "", false, 0, "")
}
