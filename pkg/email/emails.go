package email

import "context"

// SendPasswordResetEmail mails the reset link that carries the plain reset
// token. The link is only valid for the configured token lifetime.
func (c *Client) SendPasswordResetEmail(ctx context.Context, to, name, resetURL string) error {
	data := map[string]string{
		"Name":     name,
		"ResetURL": resetURL,
	}
	return c.Send(ctx, to, "Your password reset token (valid for 10 minutes)", TemplatePasswordReset, data)
}

// SendWelcomeEmail greets a freshly signed-up user.
func (c *Client) SendWelcomeEmail(ctx context.Context, to, name string) error {
	data := map[string]string{
		"Name": name,
	}
	return c.Send(ctx, to, "Welcome to GoTours!", TemplateWelcome, data)
}
