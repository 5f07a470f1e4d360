package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/petclinic-api/internal/config"
	"github.com/jwalitptl/petclinic-api/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
}

type smtpService struct {
	cfg config.SMTPConfig
}

func NewService(cfg config.SMTPConfig) Service {
	if !cfg.Enabled {
		return &noopService{}
	}
	return &smtpService{cfg: cfg}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", booking.Email)
	m.SetHeader("Subject", fmt.Sprintf("Booking received for %s", booking.PetName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nWe received your %s booking for %s on %s at %s (estimated end %s).\n"+
			"Our staff will confirm shortly.\n",
		booking.OwnerName, booking.Service, booking.PetName,
		booking.Date, booking.Time, booking.EstimatedEndTime,
	))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

// noopService stands in when SMTP is not configured.
type noopService struct{}

func (n *noopService) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	return nil
}
