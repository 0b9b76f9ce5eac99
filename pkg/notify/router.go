package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
)

// Config for the notification router.
type Config struct {
	// Enabled gates all outbound notifications. When false every routing
	// operation is a cheap no-op that reports success.
	Enabled bool `env:"NOTIFICATIONS_ENABLED" envDefault:"true"`

	// SubjectPrefix is prepended to every subject line, typically used to
	// tag the environment, e.g. "[staging] ".
	SubjectPrefix string `env:"NOTIFICATIONS_SUBJECT_PREFIX"`

	// DefaultRecipients receive notifications whose type is not in the
	// catalog. Unknown types are never dropped silently.
	DefaultRecipients []string `env:"NOTIFICATIONS_DEFAULT_RECIPIENTS" envSeparator:","`
}

// RecipientSource resolves the destination list for a notification type.
type RecipientSource interface {
	Resolve(ctx context.Context, notificationType string) []string
}

// SendResult is the structured outcome of a routing operation. Routing never
// returns a Go error: a delivery failure is data for the caller to log or
// display, not a fault that should unwind the business operation.
type SendResult struct {
	Success  bool                   `json:"success"`
	Type     Type                   `json:"type"`
	Provider string                 `json:"provider,omitempty"`
	Skipped  bool                   `json:"skipped,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Delivery *mailer.DeliveryResult `json:"delivery,omitempty"`
}

// OrderEvent describes a 3DCart order that was pushed to NetSuite, or failed to be.
type OrderEvent struct {
	RunID        string
	OrderID      string
	CustomerName string
	Total        float64
	NetSuiteID   string
	Error        string
}

// LeadEvent describes a HubSpot contact sync outcome.
type LeadEvent struct {
	RunID      string
	ContactID  string
	Email      string
	NetSuiteID string
	Error      string
}

// InventoryRun summarizes one inventory sync pass.
type InventoryRun struct {
	RunID       string
	ItemsSynced int
	ItemsFailed int
	Duration    time.Duration
	Details     []string
}

// LookupEvent describes a reference lookup that came back empty or ambiguous.
type LookupEvent struct {
	Entity string
	Key    string
	Detail string
}

// PasswordResetEvent carries the reset link for a user.
type PasswordResetEvent struct {
	UserEmail string
	ResetURL  string
	TTL       time.Duration
}

// Router maps business events to notification types, resolves recipients and
// hands the rendered email to the active provider. A router instance is bound
// to one trigger source (webhook or manual) at construction so callers never
// pass the axis per event.
type Router struct {
	cfg        Config
	provider   mailer.Provider
	recipients RecipientSource
	isWebhook  bool
	log        *slog.Logger
}

// NewRouter builds a router for webhook-triggered events. Use Manual for a
// router bound to operator-triggered reruns.
func NewRouter(cfg Config, provider mailer.Provider, recipients RecipientSource, log *slog.Logger) *Router {
	return &Router{
		cfg:        cfg,
		provider:   provider,
		recipients: recipients,
		isWebhook:  true,
		log:        log,
	}
}

// Manual returns a router identical to r but mapping events onto the manual
// trigger axis.
func (r *Router) Manual() *Router {
	clone := *r
	clone.isWebhook = false
	return &clone
}

// OrderSuccess notifies that a 3DCart order reached NetSuite.
func (r *Router) OrderSuccess(ctx context.Context, ev OrderEvent) SendResult {
	typ := MapType(ChannelThreeDCart, r.isWebhook, true)
	subject := fmt.Sprintf("Order #%s synced to NetSuite", ev.OrderID)
	return r.send(ctx, typ, subject, "order_success.html", ev)
}

// OrderFailure notifies that a 3DCart order could not be pushed to NetSuite.
func (r *Router) OrderFailure(ctx context.Context, ev OrderEvent) SendResult {
	typ := MapType(ChannelThreeDCart, r.isWebhook, false)
	subject := fmt.Sprintf("Order #%s failed to sync", ev.OrderID)
	return r.send(ctx, typ, subject, "order_failure.html", ev)
}

// LeadSuccess notifies that a HubSpot contact was created in NetSuite.
func (r *Router) LeadSuccess(ctx context.Context, ev LeadEvent) SendResult {
	typ := MapType(ChannelHubSpot, r.isWebhook, true)
	subject := fmt.Sprintf("HubSpot contact %s synced to NetSuite", ev.ContactID)
	return r.send(ctx, typ, subject, "lead_success.html", ev)
}

// LeadFailure notifies that a HubSpot contact sync failed.
func (r *Router) LeadFailure(ctx context.Context, ev LeadEvent) SendResult {
	typ := MapType(ChannelHubSpot, r.isWebhook, false)
	subject := fmt.Sprintf("HubSpot contact %s failed to sync", ev.ContactID)
	return r.send(ctx, typ, subject, "lead_failure.html", ev)
}

// InventoryReport sends the summary of an inventory sync run.
func (r *Router) InventoryReport(ctx context.Context, run InventoryRun) SendResult {
	subject := fmt.Sprintf("Inventory sync: %d updated, %d failed", run.ItemsSynced, run.ItemsFailed)
	return r.send(ctx, TypeInventorySyncReport, subject, "inventory_report.html", run)
}

// LookupFailure reports a reference lookup that returned nothing usable. It
// routes through the generic type because lookups happen across integrations.
func (r *Router) LookupFailure(ctx context.Context, ev LookupEvent) SendResult {
	subject := fmt.Sprintf("%s lookup failed for %q", ev.Entity, ev.Key)
	return r.send(ctx, TypeGeneric, subject, "lookup_failure.html", ev)
}

// PasswordReset delivers a reset link directly to the affected user, bypassing
// the subscription store.
func (r *Router) PasswordReset(ctx context.Context, ev PasswordResetEvent) SendResult {
	if !r.cfg.Enabled {
		return r.skipped(TypePasswordReset, "notifications disabled")
	}
	if !mailer.ValidEmail(ev.UserEmail) {
		return SendResult{Type: TypePasswordReset, Message: fmt.Sprintf("%q is not a valid email address", ev.UserEmail)}
	}
	if ev.TTL <= 0 {
		ev.TTL = time.Hour
	}
	body, err := render("password_reset.html", ev)
	subject := "Reset your password"
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "Template render failed, using fallback body",
			logger.NotificationType(string(TypePasswordReset)),
			logger.Error(err),
		)
		body = fallbackBody(subject)
	}
	return r.deliver(ctx, TypePasswordReset, subject, body, []string{ev.UserEmail})
}

// Notify sends an ad-hoc notification. Unknown types fall back to the
// configured default recipients instead of being dropped.
func (r *Router) Notify(ctx context.Context, notificationType, subject string, details map[string]string) SendResult {
	if !r.cfg.Enabled {
		return r.skipped(Type(notificationType), "notifications disabled")
	}

	typ := Type(notificationType)
	var recipients []string
	if ValidType(notificationType) {
		recipients = r.recipients.Resolve(ctx, notificationType)
	} else {
		r.log.LogAttrs(ctx, slog.LevelWarn, "Unknown notification type, routing to default recipients",
			logger.NotificationType(notificationType),
		)
		typ = TypeGeneric
		recipients = r.cfg.DefaultRecipients
	}

	body, err := render("generic.html", struct {
		Subject string
		Details map[string]string
	}{Subject: subject, Details: details})
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "Template render failed, using fallback body",
			logger.NotificationType(string(typ)),
			logger.Error(err),
		)
		body = fallbackBody(subject)
	}
	return r.deliver(ctx, typ, subject, body, recipients)
}

func (r *Router) send(ctx context.Context, typ Type, subject, templateName string, data any) SendResult {
	if !r.cfg.Enabled {
		return r.skipped(typ, "notifications disabled")
	}

	body, err := render(templateName, data)
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelError, "Template render failed, using fallback body",
			logger.NotificationType(string(typ)),
			logger.Error(err),
		)
		body = fallbackBody(subject)
	}
	return r.deliver(ctx, typ, subject, body, r.recipients.Resolve(ctx, string(typ)))
}

func (r *Router) deliver(ctx context.Context, typ Type, subject, body string, recipients []string) SendResult {
	if len(recipients) == 0 {
		r.log.LogAttrs(ctx, slog.LevelWarn, "No recipients resolved, skipping notification",
			logger.NotificationType(string(typ)),
		)
		return r.skipped(typ, "no recipients configured")
	}

	msg := mailer.Message{
		Subject:    strings.TrimSpace(r.cfg.SubjectPrefix + subject),
		BodyHTML:   body,
		Recipients: recipients,
	}
	res := r.provider.Send(ctx, msg)

	if res.Success {
		r.log.LogAttrs(ctx, slog.LevelInfo, "Notification delivered",
			logger.NotificationType(string(typ)),
			logger.Provider(res.Provider),
			logger.RecipientCount(len(recipients)),
			logger.StatusCode(res.StatusCode),
			logger.MessageID(res.MessageID),
		)
	} else {
		r.log.LogAttrs(ctx, slog.LevelError, "Notification delivery failed",
			logger.NotificationType(string(typ)),
			logger.Provider(res.Provider),
			logger.RecipientCount(len(recipients)),
			logger.StatusCode(res.StatusCode),
			slog.Bool("quota_exceeded", res.QuotaExceeded),
			slog.String("error", res.Err),
		)
	}

	return SendResult{
		Success:  res.Success,
		Type:     typ,
		Provider: res.Provider,
		Message:  res.Err,
		Delivery: &res,
	}
}

func (r *Router) skipped(typ Type, reason string) SendResult {
	return SendResult{Success: true, Type: typ, Skipped: true, Message: reason}
}
