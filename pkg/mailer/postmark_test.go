package mailer

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postmarkTestConfig() Config {
	return Config{
		Provider:             string(ProviderPostmark),
		FromEmail:            "noreply@example.com",
		FromName:             "Integration",
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
	}
}

func TestNewPostmark_ValidConfig(t *testing.T) {
	t.Parallel()

	p, err := newPostmark(postmarkTestConfig(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "postmark", p.Name())
}

func TestNewPostmark_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing server token", func(c *Config) { c.PostmarkServerToken = "" }},
		{"missing account token", func(c *Config) { c.PostmarkAccountToken = "" }},
		{"invalid from address", func(c *Config) { c.FromEmail = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := postmarkTestConfig()
			tt.mutate(&cfg)

			_, err := newPostmark(cfg, slog.Default())
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestPostmarkQuotaExceeded(t *testing.T) {
	t.Parallel()

	assert.True(t, postmarkQuotaExceeded(postmarkErrNotAllowed))
	assert.False(t, postmarkQuotaExceeded(0))
	assert.False(t, postmarkQuotaExceeded(postmarkErrInvalidEmail))
	assert.False(t, postmarkQuotaExceeded(postmarkErrBadToken))
}
