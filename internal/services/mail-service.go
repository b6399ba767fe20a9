package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/SundayYogurt/herohq/internal/dto"
	"github.com/SundayYogurt/herohq/internal/logging"
)

//go:embed templates/new-application.html
var mailTemplates embed.FS

type MailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
	To       string
	Subject  string
	AdminURL string
}

type MailService struct {
	cfg  MailConfig
	tmpl *template.Template
	log  logging.Logger

	// send delivers a composed message; replaced in tests.
	send func(ctx context.Context, to string, msg []byte) error
}

func NewMailService(cfg MailConfig, log logging.Logger) (*MailService, error) {
	tmpl, err := template.ParseFS(mailTemplates, "templates/new-application.html")
	if err != nil {
		return nil, err
	}
	s := &MailService{cfg: cfg, tmpl: tmpl, log: log.With("component", "mailer")}
	s.send = s.sendSMTPWithTimeout
	return s, nil
}

// SendNewApplication notifies the recruiter inbox about one application.
func (s *MailService) SendNewApplication(ctx context.Context, ev dto.ApplicationSubmittedEvent, excerpt string) error {
	msg, err := s.compose(ev, excerpt)
	if err != nil {
		return err
	}

	s.log.Info(ctx, "smtp sending", "to", s.cfg.To, "application_id", ev.ID)
	if err := s.send(ctx, s.cfg.To, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	s.log.Info(ctx, "smtp sent", "to", s.cfg.To, "application_id", ev.ID)
	return nil
}

func (s *MailService) compose(ev dto.ApplicationSubmittedEvent, excerpt string) ([]byte, error) {
	var body bytes.Buffer
	err := s.tmpl.Execute(&body, map[string]string{
		"Name":      ev.Name,
		"Email":     ev.Email,
		"Phone":     ev.Phone,
		"Message":   ev.Message,
		"Received":  ev.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		"Excerpt":   excerpt,
		"ResumeURL": ev.ResumeURL,
		"AdminURL":  s.cfg.AdminURL,
	})
	if err != nil {
		return nil, err
	}

	subject := s.cfg.Subject
	if ev.Name != "" {
		subject = fmt.Sprintf("%s: %s", subject, ev.Name)
	}
	fromHeader := fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.From)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", s.cfg.To),
		fmt.Sprintf("Reply-To: %s", ev.Email),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", subject)),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")
	return []byte(msg), nil
}

func (s *MailService) sendSMTPWithTimeout(ctx context.Context, to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	dialer := &net.Dialer{Timeout: 8 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	// STARTTLS
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.User != "" {
		auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
