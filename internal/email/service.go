package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/detailops/booking-api/internal/model"
	"github.com/detailops/booking-api/pkg/logger"
)

// Sender delivers booking emails. Sends are best-effort; the booking flow
// logs failures and moves on.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error
	SendCancellation(ctx context.Context, apt *model.Appointment) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewSMTPSender(cfg Config, log *logger.Logger) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log.WithComponent("email"),
	}
}

func (s *smtpSender) SendBookingConfirmation(ctx context.Context, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYou're booked for %s on %s.\nTotal: $%d.%02d\n\nSee you then!",
		apt.Customer.Name,
		apt.Service.Name,
		apt.StartTime.Format("Monday, Jan 2 at 3:04 PM"),
		apt.Service.PriceCents/100, apt.Service.PriceCents%100,
	)
	return s.send(apt.Customer.Email, "Your appointment is confirmed", body)
}

func (s *smtpSender) SendCancellation(ctx context.Context, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s appointment on %s has been cancelled.",
		apt.Customer.Name,
		apt.Service.Name,
		apt.StartTime.Format("Monday, Jan 2 at 3:04 PM"),
	)
	return s.send(apt.Customer.Email, "Your appointment was cancelled", body)
}

func (s *smtpSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// NoopSender is used when no SMTP server is configured.
type NoopSender struct{}

func (NoopSender) SendBookingConfirmation(context.Context, *model.Appointment) error { return nil }
func (NoopSender) SendCancellation(context.Context, *model.Appointment) error        { return nil }
