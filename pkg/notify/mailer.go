package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer interface {
	SendEmail(ctx context.Context, subject, toEmail, plainTextContent, htmlContent string) error
}

type sendgridMailer struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

func NewSendGridMailer(apiKey, senderEmail, senderName string) Mailer {
	return &sendgridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (m *sendgridMailer) SendEmail(ctx context.Context, subject, toEmail, plainTextContent, htmlContent string) error {
	from := mail.NewEmail(m.senderName, m.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded %d", resp.StatusCode)
	}
	return nil
}

type logMailer struct {
	logger *log.Logger
}

// NewLogMailer writes emails to the log instead of sending them. Used when no
// SendGrid key is configured.
func NewLogMailer() Mailer {
	return &logMailer{logger: log.New(log.Writer(), "[mail] ", log.LstdFlags)}
}

func (m *logMailer) SendEmail(ctx context.Context, subject, toEmail, plainTextContent, htmlContent string) error {
	m.logger.Printf("to=%s subject=%q\n%s", toEmail, subject, plainTextContent)
	return nil
}
