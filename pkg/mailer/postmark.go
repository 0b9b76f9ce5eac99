package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mrz1836/postmark"
)

// Postmark API error codes the adapter branches on. The API returns HTTP 200
// with a body-level error code for request-level failures.
const (
	postmarkErrBadToken     = 10  // invalid or missing server token
	postmarkErrInvalidEmail = 300 // recipient or sender failed validation
	postmarkErrNotAllowed   = 405 // account hit its plan's send limit
)

// postmarkProvider is the baseline adapter: raw HTML in, no provider-side
// templating, using the same client library as the rest of the platform's
// transactional mail.
type postmarkProvider struct {
	cfg    Config
	client *postmark.Client
	log    *slog.Logger
}

func newPostmark(cfg Config, log *slog.Logger) (*postmarkProvider, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if !ValidEmail(cfg.FromEmail) {
		return nil, fmt.Errorf("%w: FromEmail must be a valid email address", ErrInvalidConfig)
	}
	return &postmarkProvider{
		cfg:    cfg,
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		log:    log,
	}, nil
}

func (p *postmarkProvider) Name() string { return string(ProviderPostmark) }

func (p *postmarkProvider) Send(ctx context.Context, msg Message) DeliveryResult {
	if err := msg.Validate(); err != nil {
		return DeliveryResult{Provider: p.Name(), Err: err.Error()}
	}

	tag := "notification"
	if msg.IsTest {
		tag = "connectivity-test"
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.cfg.FromEmail,
		To:       strings.Join(msg.Recipients, ","),
		Subject:  msg.Subject,
		HTMLBody: msg.BodyHTML,
		Tag:      tag,
	})
	if err != nil {
		return transportFailure(p.Name(), err)
	}

	if resp.ErrorCode == 0 {
		return successResult(p.Name(), resp.MessageID, http.StatusOK)
	}

	return DeliveryResult{
		Provider:      p.Name(),
		StatusCode:    http.StatusUnprocessableEntity,
		Err:           fmt.Sprintf("postmark error %d: %s", resp.ErrorCode, resp.Message),
		QuotaExceeded: postmarkQuotaExceeded(resp.ErrorCode),
	}
}

// postmarkQuotaExceeded maps Postmark's "not allowed to send" code, which the
// API uses when the account's plan limit is reached.
func postmarkQuotaExceeded(errorCode int64) bool {
	return errorCode == postmarkErrNotAllowed
}

// TestConnection simulates a probe: Postmark has no capability endpoint the
// server token can reach, so the adapter submits a throwaway message to a
// syntactically invalid address. An "invalid email" rejection proves the
// token authenticated and the API is reachable; a bad-token rejection is an
// actionable failure.
func (p *postmarkProvider) TestConnection(ctx context.Context) ConnectivityResult {
	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.cfg.FromEmail,
		To:       "connectivity-probe@invalid",
		Subject:  "Connectivity probe",
		HTMLBody: "<p>probe</p>",
		Tag:      "connectivity-test",
	})
	if err != nil {
		return ConnectivityResult{Provider: p.Name(), Detail: err.Error()}
	}

	switch resp.ErrorCode {
	case 0, postmarkErrInvalidEmail:
		// The probe address is expected to be rejected; reaching recipient
		// validation means credentials and network are fine.
		return ConnectivityResult{OK: true, Provider: p.Name(), Detail: "credentials accepted"}
	case postmarkErrBadToken:
		return ConnectivityResult{Provider: p.Name(), Detail: "server token rejected; check POSTMARK_SERVER_TOKEN"}
	default:
		return ConnectivityResult{Provider: p.Name(), Detail: fmt.Sprintf("postmark error %d: %s", resp.ErrorCode, resp.Message)}
	}
}
