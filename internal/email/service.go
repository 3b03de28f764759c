package email

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/clinic-dashboard/internal/analytics"
	"github.com/jwalitptl/clinic-dashboard/pkg/logger"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Service struct {
	sender Sender
	from   string
	logger *logger.Logger
}

func NewService(cfg Config, log *logger.Logger) *Service {
	return NewServiceWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, log)
}

func NewServiceWithSender(sender Sender, from string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{sender: sender, from: from, logger: log}
}

// SendDailyReport mails the report to every recipient with the PDF attached.
func (s *Service) SendDailyReport(ctx context.Context, to []string, r *analytics.DailyReport, pdf []byte, filename string) error {
	if len(to) == 0 {
		return fmt.Errorf("no report recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", "Daily appointment report - "+r.Summary.FormattedDate)
	m.SetBody("text/plain", reportBody(r))
	m.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending report email: %w", err)
	}
	s.logger.Info("daily report mailed", "recipients", len(to), "date", r.Summary.Date)
	return nil
}

func reportBody(r *analytics.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Appointments for %s\n\n", r.Summary.FormattedDate)
	fmt.Fprintf(&b, "Total: %d (new %d, follow-up %d, revisit %d)\n",
		r.Summary.TotalAppointments, r.Summary.NewPatients, r.Summary.Followups, r.Summary.Revisits)
	fmt.Fprintf(&b, "Booked for %s: %d\n\n", r.TomorrowDate, r.TomorrowTotal)
	for _, d := range r.Doctors {
		fmt.Fprintf(&b, "- %s (%s): %d today, %d tomorrow\n", d.Name, d.Specialty, d.Total, r.TomorrowFor(d.ID))
	}
	b.WriteString("\nThe full report is attached.\n")
	return b.String()
}
