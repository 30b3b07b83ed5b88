package email

import (
	"context"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/resend/resend-go/v2"

	"github.com/rentflow/rentflow/internal/config"
	ierr "github.com/rentflow/rentflow/internal/errors"
	"github.com/rentflow/rentflow/internal/logger"
)

// EmailClient wraps the resend API client. When disabled (no API key or
// disabled in config) sends are skipped without error so the core never
// depends on the mail transport being reachable.
type EmailClient struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
}

// NewEmailClient builds the client from configuration.
func NewEmailClient(cfg *config.Configuration, log *logger.Logger) *EmailClient {
	enabled := cfg.Email.Enabled && cfg.Email.APIKey != ""
	if !enabled {
		return &EmailClient{enabled: false, fromAddress: cfg.Email.FromAddress}
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = log.GetRetryableHTTPLogger()

	return &EmailClient{
		client:      resend.NewCustomClient(httpClient.StandardClient(), cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
	}
}

// IsEnabled reports whether the client will actually send email.
func (c *EmailClient) IsEnabled() bool {
	return c.enabled
}

// GetFromAddress returns the configured sender address.
func (c *EmailClient) GetFromAddress() string {
	return c.fromAddress
}

// SendEmail sends a single email and returns the provider message ID.
func (c *EmailClient) SendEmail(ctx context.Context, from, to, subject, html, text string) (string, error) {
	if !c.enabled {
		return "", ierr.NewError("email client is disabled").
			WithHint("Email sending is disabled").
			Mark(ierr.ErrInvalidOperation)
	}

	sent, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			Mark(ierr.ErrInternal)
	}
	return sent.Id, nil
}
