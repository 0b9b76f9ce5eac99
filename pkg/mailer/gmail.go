package mailer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenExpiryMargin treats access tokens as expired this long before their
// reported expiry, so a token cannot lapse between the check and the send,
// and modest clock skew against the token endpoint is tolerated.
const tokenExpiryMargin = 60 * time.Second

// gmailTokenState models the adapter's bearer-token lifecycle. The only
// transitions are NoToken/Expired -> Valid, via a refresh-token grant.
type gmailTokenState int

const (
	gmailTokenNone gmailTokenState = iota
	gmailTokenValid
	gmailTokenExpired
)

// gmailProvider sends through the Gmail API on behalf of the integration's
// Google Workspace account. Unlike the other adapters it is not stateless: it
// holds a short-lived OAuth2 access token obtained from a long-lived refresh
// token.
type gmailProvider struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

func newGmail(cfg Config, log *slog.Logger) (*gmailProvider, error) {
	if cfg.GmailClientID == "" || cfg.GmailClientSecret == "" {
		return nil, fmt.Errorf("%w: GmailClientID and GmailClientSecret are required", ErrInvalidConfig)
	}
	if cfg.GmailRefreshToken == "" {
		return nil, fmt.Errorf("%w: GmailRefreshToken is required", ErrInvalidConfig)
	}
	if !ValidEmail(cfg.FromEmail) {
		return nil, fmt.Errorf("%w: FromEmail must be a valid email address", ErrInvalidConfig)
	}
	return &gmailProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		log:  log,
		now:  time.Now,
	}, nil
}

func (p *gmailProvider) Name() string { return string(ProviderGmail) }

// tokenState must be called with p.mu held.
func (p *gmailProvider) tokenState() gmailTokenState {
	switch {
	case p.accessToken == "":
		return gmailTokenNone
	case !p.now().Before(p.tokenExpiry.Add(-tokenExpiryMargin)):
		return gmailTokenExpired
	default:
		return gmailTokenValid
	}
}

type gmailTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// bearer returns a usable access token, refreshing it when absent or within
// the expiry margin.
func (p *gmailProvider) bearer(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokenState() == gmailTokenValid {
		return p.accessToken, nil
	}

	form := url.Values{
		"client_id":     {p.cfg.GmailClientID},
		"client_secret": {p.cfg.GmailClientSecret},
		"refresh_token": {p.cfg.GmailRefreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.GmailTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token refresh: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var token gmailTokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", fmt.Errorf("token refresh: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token refresh: empty access token in response")
	}

	p.accessToken = token.AccessToken
	p.tokenExpiry = p.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return p.accessToken, nil
}

type gmailSendResponse struct {
	ID    string `json:"id"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *gmailProvider) Send(ctx context.Context, msg Message) DeliveryResult {
	if err := msg.Validate(); err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	bearer, err := p.bearer(ctx)
	if err != nil {
		return transportFailure(p.Name(), err)
	}

	// The Gmail API takes a full RFC 2822 message, base64url-encoded.
	var mime strings.Builder
	fmt.Fprintf(&mime, "From: %s <%s>\r\n", p.cfg.FromName, p.cfg.FromEmail)
	fmt.Fprintf(&mime, "To: %s\r\n", strings.Join(msg.Recipients, ", "))
	fmt.Fprintf(&mime, "Subject: %s\r\n", msg.Subject)
	mime.WriteString("MIME-Version: 1.0\r\n")
	mime.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	mime.WriteString("\r\n")
	mime.WriteString(msg.BodyHTML)

	payload, err := json.Marshal(map[string]string{
		"raw": base64.URLEncoding.EncodeToString([]byte(mime.String())),
	})
	if err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.GmailBaseURL+"/gmail/v1/users/me/messages/send", strings.NewReader(string(payload)))
	if err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return transportFailure(p.Name(), err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed gmailSendResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		return successResult(p.Name(), parsed.ID, resp.StatusCode)
	}

	errText := parsed.Error.Message
	if errText == "" {
		errText = strings.TrimSpace(string(raw))
	}
	return DeliveryResult{
		Provider:      p.Name(),
		StatusCode:    resp.StatusCode,
		Err:           errText,
		QuotaExceeded: gmailQuotaExceeded(resp.StatusCode, errText),
	}
}

// gmailQuotaExceeded is a best-effort heuristic over Google's usage-limit
// rejections. Wording is not contractual; keep the predicate in one place.
func gmailQuotaExceeded(statusCode int, errText string) bool {
	if statusCode != http.StatusForbidden && statusCode != http.StatusTooManyRequests {
		return false
	}
	lower := strings.ToLower(errText)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit")
}

// TestConnection exercises the full credential chain (refresh grant plus an
// authenticated profile read) without sending mail.
func (p *gmailProvider) TestConnection(ctx context.Context) ConnectivityResult {
	bearer, err := p.bearer(ctx)
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.GmailBaseURL+"/gmail/v1/users/me/profile", nil)
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := p.http.Do(req)
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return ConnectivityResult{OK: true, Provider: p.Name(), Detail: "profile endpoint reachable"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return ConnectivityResult{Provider: p.Name(), Detail: "credentials rejected; check the OAuth client and refresh token scopes"}
	default:
		return ConnectivityResult{Provider: p.Name(), Detail: fmt.Sprintf("unexpected status %d from profile endpoint", resp.StatusCode)}
	}
}
