package notify_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
)

// MockProvider is a mock implementation of mailer.Provider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Send(ctx context.Context, msg mailer.Message) mailer.DeliveryResult {
	args := m.Called(ctx, msg)
	return args.Get(0).(mailer.DeliveryResult)
}

func (m *MockProvider) TestConnection(ctx context.Context) mailer.ConnectivityResult {
	args := m.Called(ctx)
	return args.Get(0).(mailer.ConnectivityResult)
}

type staticRecipients map[string][]string

func (s staticRecipients) Resolve(_ context.Context, notificationType string) []string {
	return s[notificationType]
}

func okDelivery() mailer.DeliveryResult {
	return mailer.DeliveryResult{Success: true, Provider: "mock", MessageID: "m-1", StatusCode: 201}
}

func newRouter(cfg notify.Config, provider mailer.Provider, recipients notify.RecipientSource) *notify.Router {
	return notify.NewRouter(cfg, provider, recipients, slog.Default())
}

func TestRouter_OrderSuccess(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return msg.Subject == "Order #1056 synced to NetSuite" &&
			len(msg.Recipients) == 2
	})).Return(okDelivery())

	recipients := staticRecipients{
		"3dcart_success_webhook": {"ops@x.com", "web_dev@lagunatools.com"},
	}

	res := newRouter(notify.Config{Enabled: true}, provider, recipients).
		OrderSuccess(context.Background(), notify.OrderEvent{
			RunID:        "run-1",
			OrderID:      "1056",
			CustomerName: "Jane Doe",
			Total:        249.99,
			NetSuiteID:   "SO-4412",
		})

	assert.True(t, res.Success)
	assert.Equal(t, notify.TypeThreeDCartSuccessWebhook, res.Type)
	assert.Equal(t, "mock", res.Provider)
	require.NotNil(t, res.Delivery)
	assert.Equal(t, "m-1", res.Delivery.MessageID)
	provider.AssertExpectations(t)
}

func TestRouter_ManualAxis(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.Anything).Return(okDelivery())

	recipients := staticRecipients{
		"3dcart_failed_manual": {"ops@x.com"},
	}

	res := newRouter(notify.Config{Enabled: true}, provider, recipients).
		Manual().
		OrderFailure(context.Background(), notify.OrderEvent{OrderID: "1056", Error: "missing SKU"})

	assert.Equal(t, notify.TypeThreeDCartFailedManual, res.Type)
	assert.True(t, res.Success)
}

func TestRouter_DisabledIsNoOp(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	r := newRouter(notify.Config{Enabled: false}, provider, staticRecipients{})

	results := []notify.SendResult{
		r.OrderSuccess(context.Background(), notify.OrderEvent{OrderID: "1"}),
		r.LeadFailure(context.Background(), notify.LeadEvent{ContactID: "c-1", Error: "boom"}),
		r.InventoryReport(context.Background(), notify.InventoryRun{ItemsSynced: 5}),
		r.PasswordReset(context.Background(), notify.PasswordResetEvent{UserEmail: "u@x.com", ResetURL: "https://x.com/r"}),
		r.Notify(context.Background(), "generic", "hello", nil),
	}

	for _, res := range results {
		assert.True(t, res.Success)
		assert.True(t, res.Skipped)
		assert.Nil(t, res.Delivery)
	}
	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRouter_DeliveryFailureSurfaced(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.Anything).Return(mailer.DeliveryResult{
		Provider:      "mock",
		StatusCode:    402,
		Err:           "credits exhausted",
		QuotaExceeded: true,
	})

	recipients := staticRecipients{"hubspot_failed_webhook": {"ops@x.com"}}

	res := newRouter(notify.Config{Enabled: true}, provider, recipients).
		LeadFailure(context.Background(), notify.LeadEvent{ContactID: "c-9", Error: "timeout"})

	assert.False(t, res.Success)
	assert.Equal(t, "credits exhausted", res.Message)
	require.NotNil(t, res.Delivery)
	assert.True(t, res.Delivery.QuotaExceeded)
}

func TestRouter_UnknownTypeFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return len(msg.Recipients) == 1 && msg.Recipients[0] == "fallback@x.com"
	})).Return(okDelivery())

	cfg := notify.Config{Enabled: true, DefaultRecipients: []string{"fallback@x.com"}}
	res := newRouter(cfg, provider, staticRecipients{}).
		Notify(context.Background(), "no_such_type", "odd event", map[string]string{"detail": "value"})

	assert.True(t, res.Success)
	assert.Equal(t, notify.TypeGeneric, res.Type)
	provider.AssertExpectations(t)
}

func TestRouter_NoRecipientsSkips(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	res := newRouter(notify.Config{Enabled: true}, provider, staticRecipients{}).
		InventoryReport(context.Background(), notify.InventoryRun{ItemsSynced: 3, Duration: time.Minute})

	assert.True(t, res.Success)
	assert.True(t, res.Skipped)
	assert.Contains(t, res.Message, "no recipients")
	provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRouter_SubjectPrefix(t *testing.T) {
	t.Parallel()

	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return msg.Subject == "[staging] Inventory sync: 7 updated, 2 failed"
	})).Return(okDelivery())

	cfg := notify.Config{Enabled: true, SubjectPrefix: "[staging] "}
	recipients := staticRecipients{"inventory_sync_report": {"ops@x.com"}}

	res := newRouter(cfg, provider, recipients).
		InventoryReport(context.Background(), notify.InventoryRun{ItemsSynced: 7, ItemsFailed: 2, Duration: 3 * time.Minute})

	assert.True(t, res.Success)
	provider.AssertExpectations(t)
}

func TestRouter_PasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("delivers to the user directly", func(t *testing.T) {
		t.Parallel()

		provider := new(MockProvider)
		provider.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
			return len(msg.Recipients) == 1 && msg.Recipients[0] == "user@x.com" &&
				msg.Subject == "Reset your password"
		})).Return(okDelivery())

		res := newRouter(notify.Config{Enabled: true}, provider, staticRecipients{}).
			PasswordReset(context.Background(), notify.PasswordResetEvent{
				UserEmail: "user@x.com",
				ResetURL:  "https://app.x.com/reset?token=abc",
				TTL:       30 * time.Minute,
			})

		assert.True(t, res.Success)
		provider.AssertExpectations(t)
	})

	t.Run("invalid address rejected without send", func(t *testing.T) {
		t.Parallel()

		provider := new(MockProvider)
		res := newRouter(notify.Config{Enabled: true}, provider, staticRecipients{}).
			PasswordReset(context.Background(), notify.PasswordResetEvent{UserEmail: "nope", ResetURL: "https://x"})

		assert.False(t, res.Success)
		provider.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestRouter_BodyRendersEventFields(t *testing.T) {
	t.Parallel()

	var captured mailer.Message
	provider := new(MockProvider)
	provider.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(mailer.Message) }).
		Return(okDelivery())

	recipients := staticRecipients{"3dcart_failed_webhook": {"ops@x.com"}}
	newRouter(notify.Config{Enabled: true}, provider, recipients).
		OrderFailure(context.Background(), notify.OrderEvent{
			RunID:   "run-7",
			OrderID: "2001",
			Error:   "NetSuite rejected the customer record",
		})

	assert.Contains(t, captured.BodyHTML, "#2001")
	assert.Contains(t, captured.BodyHTML, "NetSuite rejected the customer record")
	assert.Contains(t, captured.BodyHTML, "run-7")
}
