package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"

	"showbook/internal/shared/config"
)

// EmailService sends rendered notifications over SMTP
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// NewSMTPConfig creates SMTP settings from app config
func NewSMTPConfig(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  "ShowBook",
		Timeout:   30 * time.Second,
	}
}

// SMTPEmailService is the SMTP implementation of EmailService
type SMTPEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	service := &SMTPEmailService{
		config:    config,
		templates: make(map[NotificationType]*template.Template),
	}
	service.loadDefaultTemplates()

	return service, nil
}

func (s *SMTPEmailService) loadDefaultTemplates() {
	s.templates[NotificationTypeBookingConfirmed] = template.Must(template.New("booking_confirmed").Parse(`
<h2>Your booking is confirmed!</h2>
<p>Hi {{.recipient_name}},</p>
<p>Booking <strong>{{.ref_code}}</strong> for <strong>{{.program_title}}</strong> is confirmed.</p>
<p>Seats: {{.seats}}<br>Showtime: {{.start_time}}<br>Amount paid: {{.amount}}</p>
<p>Show the booking reference or its QR code at the venue entrance.</p>
`))

	s.templates[NotificationTypeBookingCancelled] = template.Must(template.New("booking_cancelled").Parse(`
<h2>Your booking was cancelled</h2>
<p>Hi {{.recipient_name}},</p>
<p>Booking <strong>{{.ref_code}}</strong> for <strong>{{.program_title}}</strong> has been cancelled.</p>
<p>The seats have been released.</p>
`))

	s.templates[NotificationTypePaymentFailed] = template.Must(template.New("payment_failed").Parse(`
<h2>Payment failed</h2>
<p>Hi {{.recipient_name}},</p>
<p>The payment for booking <strong>{{.ref_code}}</strong> could not be verified.</p>
<p>Please contact support to resolve the booking.</p>
`))
}

// SendNotification renders the notification's template and emails it
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("📧 [SMTP] Sending %s notification to %s (%s)",
		notification.Type, notification.RecipientEmail, notification.RecipientName)

	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %s", notification.Type)
	}

	data := notification.TemplateData
	if data == nil {
		data = map[string]interface{}{}
	}
	data["recipient_name"] = notification.RecipientName

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, body.String())
}

// SendHTML sends an HTML email via SMTP
func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-time.After(s.config.Timeout):
		return fmt.Errorf("timed out sending email to %s", to)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogEmailService logs emails instead of sending them. Used in development
// when no SMTP server is configured.
type LogEmailService struct{}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("📧 [DEV] Would send %s email to %s: %s",
		notification.Type, notification.RecipientEmail, notification.Subject)
	return nil
}

func (s *LogEmailService) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	log.Printf("📧 [DEV] Would send email to %s: %s", to, subject)
	return nil
}
