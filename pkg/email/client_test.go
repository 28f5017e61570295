package email

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

func TestRenderPasswordResetTemplate(t *testing.T) {
	body, err := renderTemplate(TemplatePasswordReset, map[string]string{
		"Name":     "Ada",
		"ResetURL": "https://api.gotours.dev/api/v1/users/resetPassword/abc123",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Ada,")
	assert.Contains(t, body, "https://api.gotours.dev/api/v1/users/resetPassword/abc123")
	assert.Contains(t, body, "valid for the next 10 minutes")
}

func TestRenderWelcomeTemplate(t *testing.T) {
	body, err := renderTemplate(TemplateWelcome, map[string]string{"Name": "Max"})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome to GoTours!")
	assert.Contains(t, body, "Hi Max,")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := renderTemplate(Template("missing"), nil)
	require.Error(t, err)
}

func TestNewClientCarriesIdentity(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	client := NewClient(config.EmailConfig{
		ResendAPIKey: "re_test",
		FromName:     "GoTours",
		FromAddress:  "hello@gotours.dev",
	}, logg)
	require.NotNil(t, client)
	assert.Equal(t, "GoTours", client.cfg.FromName)
	assert.Equal(t, "hello@gotours.dev", client.cfg.FromAddress)
}
