package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"crm-notification-service/internal/config"
	"crm-notification-service/internal/domain/entity"

	"gopkg.in/gomail.v2"
)

// Client sends booking reminder emails over SMTP
type Client struct {
	cfg      *config.SMTPConfig
	template *template.Template
}

// NewClient creates a new SMTP client
func NewClient(cfg *config.SMTPConfig) (*Client, error) {
	tmpl, err := template.New("booking_reminder").Parse(bookingReminderTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reminder template: %w", err)
	}

	return &Client{
		cfg:      cfg,
		template: tmpl,
	}, nil
}

// SendBookingReminder emails the client of a booking starting soon
func (c *Client) SendBookingReminder(ctx context.Context, booking *entity.Booking) error {
	data := map[string]interface{}{
		"ClientName": booking.ClientName,
		"StartsAt":   booking.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
	}

	var buf bytes.Buffer
	if err := c.template.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render reminder email: %w", err)
	}

	subject := "Reminder: your appointment starts soon"
	return c.send(booking.ClientEmail, subject, buf.String())
}

func (c *Client) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)

	// UseTLS selects STARTTLS (port 587); otherwise implicit SSL (port 465).
	if c.cfg.UseTLS {
		d.SSL = false
		d.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const bookingReminderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Appointment Reminder</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2196F3;">Your appointment starts soon</h2>
        <p>Hi {{.ClientName}},</p>
        <p>This is a reminder that your appointment is scheduled for:</p>
        <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
            <p style="margin: 0; font-size: 16px;"><strong>{{.StartsAt}}</strong></p>
        </div>
        <p>If you need to reschedule, please contact us as soon as possible.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email, please do not reply.</p>
    </div>
</body>
</html>
`
