package services

import (
	"context"
	"fmt"

	"invoiceflow-backend/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends through an SMTP relay, throttled to the relay's allowance.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	from        string
	rateLimiter *rate.Limiter
}

func NewSMTPMailer(cfg *config.AppConfig) *SMTPMailer {
	perMinute := cfg.MailPerMin
	if perMinute <= 0 {
		perMinute = 30
	}

	config.Logger.Info("Mailer initialized",
		zap.String("host", cfg.SMTPHost),
		zap.Int("port", cfg.SMTPPort),
		zap.Float64("per_minute", perMinute))

	return &SMTPMailer{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:        cfg.SMTPFrom,
		rateLimiter: rate.NewLimiter(rate.Limit(perMinute/60), 5),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := m.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
