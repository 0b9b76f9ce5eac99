package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// brevoProvider sends through the Brevo transactional API (v3).
// A successful send is signalled by HTTP 201 exactly; any other status is a
// provider rejection carried back as a failed DeliveryResult.
type brevoProvider struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func newBrevo(cfg Config, log *slog.Logger) (*brevoProvider, error) {
	if cfg.BrevoAPIKey == "" {
		return nil, fmt.Errorf("%w: BrevoAPIKey is required", ErrInvalidConfig)
	}
	if !ValidEmail(cfg.FromEmail) {
		return nil, fmt.Errorf("%w: FromEmail must be a valid email address", ErrInvalidConfig)
	}
	return &brevoProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.HTTPTimeout},
		log:  log,
	}, nil
}

func (p *brevoProvider) Name() string { return string(ProviderBrevo) }

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	Tags        []string       `json:"tags,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (p *brevoProvider) Send(ctx context.Context, msg Message) DeliveryResult {
	if err := msg.Validate(); err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	payload := brevoSendRequest{
		Sender:      brevoAddress{Name: p.cfg.FromName, Email: p.cfg.FromEmail},
		Subject:     msg.Subject,
		HTMLContent: msg.BodyHTML,
	}
	for _, r := range msg.Recipients {
		payload.To = append(payload.To, brevoAddress{Email: r})
	}
	if msg.IsTest {
		payload.Tags = []string{"connectivity-test"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BrevoBaseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.cfg.BrevoAPIKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return transportFailure(p.Name(), err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed brevoSendResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode == http.StatusCreated {
		return successResult(p.Name(), parsed.MessageID, resp.StatusCode)
	}

	errText := parsed.Message
	if errText == "" {
		errText = strings.TrimSpace(string(raw))
	}
	return DeliveryResult{
		Provider:      p.Name(),
		StatusCode:    resp.StatusCode,
		Err:           errText,
		QuotaExceeded: brevoQuotaExceeded(resp.StatusCode, errText),
	}
}

// brevoQuotaExceeded is a best-effort heuristic over Brevo's plan-limit
// rejection: HTTP 402 with an error message mentioning credits. Brevo can
// change the wording without notice; keep the predicate in one place.
func brevoQuotaExceeded(statusCode int, errText string) bool {
	return statusCode == http.StatusPaymentRequired &&
		strings.Contains(strings.ToLower(errText), "credit")
}

// TestConnection checks the API key against the account endpoint. No mail is
// sent.
func (p *brevoProvider) TestConnection(ctx context.Context) ConnectivityResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BrevoBaseURL+"/v3/account", nil)
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", p.cfg.BrevoAPIKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return ConnectivityResult{OK: true, Provider: p.Name(), Detail: "account endpoint reachable"}
	case http.StatusUnauthorized:
		return ConnectivityResult{Provider: p.Name(), Detail: "API key rejected; check BREVO_API_KEY and the authorized IP list"}
	default:
		return ConnectivityResult{Provider: p.Name(), Detail: fmt.Sprintf("unexpected status %d from account endpoint", resp.StatusCode)}
	}
}
