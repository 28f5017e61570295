// Package email sends transactional mail through Resend, rendering HTML
// bodies from embedded templates.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names an embedded email template.
type Template string

const (
	// TemplateWelcome corresponds to templates/welcome.html
	TemplateWelcome Template = "welcome"
	// TemplatePasswordReset corresponds to templates/password_reset.html
	TemplatePasswordReset Template = "password_reset"
)

// Sender is the surface the auth service depends on.
type Sender interface {
	SendPasswordResetEmail(ctx context.Context, to, name, resetURL string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
}

// Client wraps the Resend client together with sender identity config.
type Client struct {
	client *resend.Client
	cfg    config.EmailConfig
	logg   *logger.Logger
}

// NewClient builds an email client from config.
func NewClient(cfg config.EmailConfig, logg *logger.Logger) *Client {
	return &Client{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
		logg:   logg,
	}
}

// renderTemplate produces the HTML body for the named embedded template.
func renderTemplate(name Template, data map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", name))
	if err != nil {
		return "", fmt.Errorf("parsing email template %s: %w", name, err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("executing email template %s: %w", name, err)
	}
	return body.String(), nil
}

// Send renders the named template with data and dispatches it.
func (c *Client) Send(ctx context.Context, to, subject string, name Template, data map[string]string) error {
	body, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromAddress),
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	if c.logg != nil {
		c.logg.Info(c.logg.WithField(ctx, "template", string(name)), "email dispatched")
	}
	return nil
}
