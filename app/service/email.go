package service

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/vibast-solutions/ms-go-contacts/config"
)

// SMTPEmailSender mails the account-confirmation link through a plain SMTP
// relay. The link embeds a confirmation-scoped token.
type SMTPEmailSender struct {
	cfg    config.SMTPConfig
	issuer *TokenIssuer
	ttl    time.Duration
}

func NewSMTPEmailSender(cfg config.SMTPConfig, issuer *TokenIssuer, ttl time.Duration) *SMTPEmailSender {
	return &SMTPEmailSender{cfg: cfg, issuer: issuer, ttl: ttl}
}

func (s *SMTPEmailSender) Send(to, username, baseURL string) error {
	token, err := s.issuer.Issue(to, ScopeEmail, s.ttl)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Confirm your email")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hello %s,</p><p>Please confirm your email: <a href=%q>confirm</a></p>",
		username, baseURL+"api/auth/confirmed_email/"+token,
	))

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
