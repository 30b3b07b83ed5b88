package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rentflow/rentflow/internal/logger"
)

// emailTemplates stores email templates as string constants
var emailTemplates = map[string]string{
	"invoice-created.html": `<!DOCTYPE html>
<html>
<head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>New invoice</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.recipient_name}},</p>
    <p>Invoice <strong>{{.invoice_number}}</strong> for lease {{.lease_number}} has been issued.</p>
    <p>Amount due: <strong>{{.total_amount}}</strong><br/>
    Due date: <strong>{{.due_date}}</strong></p>
    <p>Thanks,<br/>The Rentflow team</p>
</body>
</html>`,
	"lease-activated.html": `<!DOCTYPE html>
<html>
<head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>Lease activated</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.recipient_name}},</p>
    <p>All parties have signed lease <strong>{{.lease_number}}</strong>. The lease is now active.</p>
    <p>Term: {{.start_date}} to {{.end_date}}</p>
    <p>Thanks,<br/>The Rentflow team</p>
</body>
</html>`,
	"lease-terminated.html": `<!DOCTYPE html>
<html>
<head>
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
    <title>Lease terminated</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.recipient_name}},</p>
    <p>Lease <strong>{{.lease_number}}</strong> has been terminated effective {{.termination_date}}.</p>
    <p>Thanks,<br/>The Rentflow team</p>
</body>
</html>`,
}

// Email handles templated email operations.
type Email struct {
	client *EmailClient
	logger *logger.Logger
}

// NewEmail creates a new email service.
func NewEmail(client *EmailClient, log *logger.Logger) *Email {
	return &Email{
		client: client,
		logger: log,
	}
}

// SendTemplatedEmail renders a stored template and sends it. When the client
// is disabled the send is skipped and logged, not failed.
func (s *Email) SendTemplatedEmail(ctx context.Context, to, subject, templateName string, data map[string]interface{}) error {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping email send",
			"to", to,
			"subject", subject,
			"template", templateName,
		)
		return nil
	}

	html, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	messageID, err := s.client.SendEmail(ctx, s.client.GetFromAddress(), to, subject, html, "")
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", to,
			"subject", subject,
		)
		return err
	}

	s.logger.Infow("email sent successfully",
		"message_id", messageID,
		"to", to,
		"subject", subject,
	)
	return nil
}

func (s *Email) renderTemplate(name string, data map[string]interface{}) (string, error) {
	raw, ok := emailTemplates[name]
	if !ok {
		return "", fmt.Errorf("email template not found: %s", name)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
