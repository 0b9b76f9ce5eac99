package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_UnknownProviderIsFatal(t *testing.T) {
	t.Parallel()

	cfg := brevoTestConfig("http://localhost")
	cfg.Provider = "mailchimp"

	_, err := NewFactory(context.Background(), cfg, slog.Default())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewFactory_SelectsConfiguredProvider(t *testing.T) {
	t.Parallel()

	f, err := NewFactory(context.Background(), brevoTestConfig("http://localhost"), slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "brevo", f.Active().Name())

	desc := f.Current()
	assert.Equal(t, ProviderBrevo, desc.Name)
	assert.Equal(t, "noreply@example.com", desc.From)
	assert.True(t, desc.SupportsAccountCheck)
}

func TestFactory_Current_PostmarkHasNoAccountCheck(t *testing.T) {
	t.Parallel()

	f, err := NewFactory(context.Background(), postmarkTestConfig(), slog.Default())
	require.NoError(t, err)

	assert.False(t, f.Current().SupportsAccountCheck)
}

// TestFactory_TestAll_SurvivesConstructionFailures configures only Brevo and
// Gmail; SES and Postmark fail construction for missing credentials, and the
// bulk probe must still report all four providers.
func TestFactory_TestAll_SurvivesConstructionFailures(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/account", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/gmail/v1/users/me/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := Config{
		Provider:          string(ProviderBrevo),
		FromEmail:         "noreply@example.com",
		FromName:          "Integration",
		HTTPTimeout:       5 * time.Second,
		BrevoAPIKey:       "test-key",
		BrevoBaseURL:      srv.URL,
		GmailClientID:     "client-id",
		GmailClientSecret: "client-secret",
		GmailRefreshToken: "refresh-token",
		GmailTokenURL:     srv.URL + "/token",
		GmailBaseURL:      srv.URL,
		// AWS and Postmark deliberately unconfigured.
	}

	f, err := NewFactory(context.Background(), cfg, slog.Default())
	require.NoError(t, err)

	results := f.TestAll(context.Background())
	require.Len(t, results, 4)

	assert.True(t, results[ProviderBrevo].OK)
	assert.True(t, results[ProviderGmail].OK)

	assert.False(t, results[ProviderSES].OK)
	assert.Contains(t, results[ProviderSES].Detail, "construction failed")
	assert.False(t, results[ProviderPostmark].OK)
	assert.Contains(t, results[ProviderPostmark].Detail, "construction failed")
}
