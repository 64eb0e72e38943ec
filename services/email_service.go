package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/mikesz88/ghostMammothsPB-sub000/config"
)

const courtAssignedTemplate = `
<p>Hi {{.Name}},</p>
<p>You're up! Head over to <b>court {{.CourtNumber}}</b> at {{.EventName}}.</p>
`

const positionUpdateTemplate = `
<p>Hi {{.Name}},</p>
<p>You moved up to <b>position {{.Position}}</b> in the queue at {{.EventName}}.
{{if .TopFour}}You're in the next group up — stay close to the courts!{{end}}</p>
`

type EmailService struct {
	cfg *config.Config

	courtAssigned  *template.Template
	positionUpdate *template.Template
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		cfg:            cfg,
		courtAssigned:  template.Must(template.New("court_assigned").Parse(courtAssignedTemplate)),
		positionUpdate: template.Must(template.New("position_update").Parse(positionUpdateTemplate)),
	}
}

// Enabled reports whether SMTP settings were provided. When disabled the
// Send* methods are no-ops so callers can fire without checking config.
func (s *EmailService) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

func (s *EmailService) SendCourtAssigned(to, name, eventName string, courtNumber int) error {
	body, err := s.render(s.courtAssigned, map[string]interface{}{
		"Name":        name,
		"EventName":   eventName,
		"CourtNumber": courtNumber,
	})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("You're on court %d!", courtNumber), body)
}

func (s *EmailService) SendPositionUpdate(to, name, eventName string, position int) error {
	body, err := s.render(s.positionUpdate, map[string]interface{}{
		"Name":      name,
		"EventName": eventName,
		"Position":  position,
		"TopFour":   position <= 4,
	})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Queue update: you're #%d", position), body)
}

func (s *EmailService) render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func (s *EmailService) send(to, subject, body string) error {
	if !s.Enabled() {
		return nil
	}

	msg := []byte("To: " + to + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Implicit TLS.
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial failed: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client creation failed: %w", err)
		}
	} else {
		// STARTTLS (typically port 587).
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		client = c
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp message write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp DATA close failed: %w", err)
	}
	return nil
}
