package mailer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gmailTestServer struct {
	srv          *httptest.Server
	tokenFetches atomic.Int64
	sendStatus   int
	sendBody     any
}

func newGmailTestServer(t *testing.T) *gmailTestServer {
	t.Helper()

	g := &gmailTestServer{
		sendStatus: http.StatusOK,
		sendBody:   map[string]string{"id": "msg-001"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		g.tokenFetches.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-token-1",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/send", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token-1", r.Header.Get("Authorization"))
		w.WriteHeader(g.sendStatus)
		_ = json.NewEncoder(w).Encode(g.sendBody)
	})
	mux.HandleFunc("/gmail/v1/users/me/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"emailAddress": "noreply@example.com"})
	})

	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)
	return g
}

func gmailTestConfig(baseURL string) Config {
	return Config{
		Provider:          string(ProviderGmail),
		FromEmail:         "noreply@example.com",
		FromName:          "Integration",
		HTTPTimeout:       5 * time.Second,
		GmailClientID:     "client-id",
		GmailClientSecret: "client-secret",
		GmailRefreshToken: "refresh-token",
		GmailTokenURL:     baseURL + "/token",
		GmailBaseURL:      baseURL,
	}
}

func TestGmail_Send_Success(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	res := p.Send(context.Background(), testMessage())
	assert.True(t, res.Success)
	assert.Equal(t, "gmail", res.Provider)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "msg-001", res.MessageID)
	assert.EqualValues(t, 1, ts.tokenFetches.Load())
}

func TestGmail_TokenReusedWhileValid(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	p.Send(context.Background(), testMessage())
	p.Send(context.Background(), testMessage())

	assert.EqualValues(t, 1, ts.tokenFetches.Load(), "valid token must be reused")
}

func TestGmail_TokenRefreshedWithinExpiryMargin(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	base := time.Now()
	current := base
	p.now = func() time.Time { return current }

	p.Send(context.Background(), testMessage())
	assert.EqualValues(t, 1, ts.tokenFetches.Load())

	// 30s before nominal expiry is inside the 60s safety margin.
	current = base.Add(3600*time.Second - 30*time.Second)
	p.Send(context.Background(), testMessage())
	assert.EqualValues(t, 2, ts.tokenFetches.Load(), "token inside the margin must be treated as expired")
}

func TestGmail_Send_QuotaExceeded(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	ts.sendStatus = http.StatusForbidden
	ts.sendBody = map[string]any{
		"error": map[string]any{
			"code":    403,
			"message": "Quota exceeded for quota metric 'Queries'",
			"status":  "RESOURCE_EXHAUSTED",
		},
	}

	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.True(t, res.QuotaExceeded)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestGmail_Send_ForbiddenWithoutQuotaPhrase(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	ts.sendStatus = http.StatusForbidden
	ts.sendBody = map[string]any{
		"error": map[string]any{"code": 403, "message": "Insufficient Permission"},
	}

	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.False(t, res.QuotaExceeded)
}

func TestGmail_Send_TokenRefreshFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	}))
	defer srv.Close()

	cfg := gmailTestConfig(srv.URL)
	p, err := newGmail(cfg, slog.Default())
	require.NoError(t, err)

	res := p.Send(context.Background(), testMessage())
	assert.False(t, res.Success)
	assert.Contains(t, res.Err, "token refresh")
}

func TestGmail_TestConnection(t *testing.T) {
	t.Parallel()

	ts := newGmailTestServer(t)
	p, err := newGmail(gmailTestConfig(ts.srv.URL), slog.Default())
	require.NoError(t, err)

	res := p.TestConnection(context.Background())
	assert.True(t, res.OK)
	assert.Equal(t, "gmail", res.Provider)
}

func TestNewGmail_RequiresCredentials(t *testing.T) {
	t.Parallel()

	cfg := gmailTestConfig("http://localhost")
	cfg.GmailRefreshToken = ""

	_, err := newGmail(cfg, slog.Default())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
