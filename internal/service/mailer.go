package service

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/waitr/waitr-api/internal/config"
)

// ErrMailNotConfigured is returned when SMTP settings are absent. The auth
// service decides whether that is fatal based on the environment.
var ErrMailNotConfigured = errors.New("smtp not configured")

// Mailer delivers one-time login codes.
type Mailer interface {
	SendCode(to, code string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	ttlMin int
}

// NewSMTPMailer builds a gomail-backed mailer from config. A mailer is
// always returned; sends fail with ErrMailNotConfigured when SMTP_HOST or
// SMTP_USER is missing.
func NewSMTPMailer(cfg config.MailConfig, otpTTLMinutes int) Mailer {
	m := &smtpMailer{from: cfg.From, ttlMin: otpTTLMinutes}
	if cfg.SMTPHost != "" && cfg.SMTPUser != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return m
}

func (m *smtpMailer) SendCode(to, code string) error {
	if m.dialer == nil {
		return ErrMailNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Waitr login code")
	msg.SetBody("text/plain", fmt.Sprintf("Your Waitr login code is: %s. It expires in %d minutes.", code, m.ttlMin))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send login code: %w", err)
	}
	return nil
}
