package sendgrid

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail, currently only the seller "new order"
// notification. Failures are surfaced to the caller, which treats them as
// best-effort.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewMailer(apiKey, fromEmail, fromName string) Mailer {
	return &sendGridMailer{client: sendgrid.NewSendClient(apiKey), fromEmail: fromEmail, fromName: fromName}
}

func (m *sendGridMailer) Send(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail("", toEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(to)
	personalization.Subject = subject
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", plainText))

	if htmlContent != "" {
		message.AddContent(mail.NewContent("text/html", htmlContent))
	}

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}
