package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/lettermill/newsletter-api/internal/core/domain/subscriber"
	"github.com/lettermill/newsletter-api/internal/core/ports"
)

// EmailConfig holds email delivery configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	BaseURL        string
}

const confirmationSubject = "Welcome!"

// Each confirmation body contains exactly one link to the confirmation URL;
// consumers extract "the" link from the message.
const (
	confirmationHTMLBody = `<p>Welcome to our newsletter!</p><p>Click <a href="{{.ConfirmationURL}}">here</a> to confirm your subscription.</p>`
	confirmationTextBody = `Welcome to our newsletter!
Visit {{.ConfirmationURL}} to confirm your subscription.
`
)

// SendGridClient implements the EmailClient interface on SendGrid.
type SendGridClient struct {
	config           *EmailConfig
	logger           *logrus.Logger
	client           *sendgrid.Client
	confirmationHTML *template.Template
	confirmationText *texttemplate.Template
}

// NewSendGridClient creates a new SendGrid-backed email client.
func NewSendGridClient(config *EmailConfig, logger *logrus.Logger) (ports.EmailClient, error) {
	htmlTmpl, err := template.New("confirmation_html").Parse(confirmationHTMLBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation html template: %w", err)
	}
	textTmpl, err := texttemplate.New("confirmation_text").Parse(confirmationTextBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation text template: %w", err)
	}

	return &SendGridClient{
		config:           config,
		logger:           logger,
		client:           sendgrid.NewSendClient(config.SendGridAPIKey),
		confirmationHTML: htmlTmpl,
		confirmationText: textTmpl,
	}, nil
}

// SendEmail sends a single email with both HTML and plain-text bodies.
func (c *SendGridClient) SendEmail(ctx context.Context, to subscriber.Email, subject, htmlBody, textBody string) error {
	from := mail.NewEmail(c.config.FromName, c.config.FromEmail)
	recipient := mail.NewEmail("", to.String())

	message := mail.NewSingleEmail(from, subject, recipient, textBody, htmlBody)

	response, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"to":      to.String(),
				"subject": subject,
			}).WithError(err).Error("failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"to":          to.String(),
				"subject":     subject,
				"status_code": response.StatusCode,
			}).Error("email rejected by SendGrid")
		}
		return fmt.Errorf("sendgrid rejected the email with status %d", response.StatusCode)
	}

	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"to":          to.String(),
			"subject":     subject,
			"status_code": response.StatusCode,
		}).Info("email sent successfully")
	}

	return nil
}

// SendConfirmationEmail builds the confirmation link for token and sends the
// double-opt-in email.
func (c *SendGridClient) SendConfirmationEmail(ctx context.Context, to subscriber.Email, token string) error {
	htmlBody, textBody, err := renderConfirmationBodies(c.confirmationHTML, c.confirmationText, c.config.BaseURL, token)
	if err != nil {
		return err
	}
	return c.SendEmail(ctx, to, confirmationSubject, htmlBody, textBody)
}

type confirmationData struct {
	ConfirmationURL string
}

func renderConfirmationBodies(htmlTmpl *template.Template, textTmpl *texttemplate.Template, baseURL, token string) (string, string, error) {
	data := confirmationData{
		ConfirmationURL: fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", baseURL, token),
	}

	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render confirmation html body: %w", err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render confirmation text body: %w", err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}
