package api_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seunsodimu/lag-int-sub001/pkg/api"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
	"github.com/seunsodimu/lag-int-sub001/pkg/recipients"
)

// MockRecipientAdmin is a mock implementation of RecipientAdmin for testing
type MockRecipientAdmin struct {
	mock.Mock
}

func (m *MockRecipientAdmin) BulkAdd(ctx context.Context, email string, types []string) map[string]recipients.MutationResult {
	args := m.Called(ctx, email, types)
	return args.Get(0).(map[string]recipients.MutationResult)
}

func (m *MockRecipientAdmin) Remove(ctx context.Context, notificationType, email string) recipients.MutationResult {
	args := m.Called(ctx, notificationType, email)
	return args.Get(0).(recipients.MutationResult)
}

func (m *MockRecipientAdmin) Toggle(ctx context.Context, notificationType, email string) recipients.MutationResult {
	args := m.Called(ctx, notificationType, email)
	return args.Get(0).(recipients.MutationResult)
}

func (m *MockRecipientAdmin) Subscriptions(ctx context.Context, notificationType string) ([]recipients.Subscription, error) {
	args := m.Called(ctx, notificationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipients.Subscription), args.Error(1)
}

type fakeDiagnostics struct{}

func (fakeDiagnostics) Current() mailer.Descriptor {
	return mailer.Descriptor{Name: mailer.ProviderBrevo, From: "noreply@x.com", SupportsAccountCheck: true}
}

func (fakeDiagnostics) TestAll(context.Context) map[mailer.ProviderName]mailer.ConnectivityResult {
	return map[mailer.ProviderName]mailer.ConnectivityResult{
		mailer.ProviderBrevo: {OK: true, Provider: string(mailer.ProviderBrevo)},
		mailer.ProviderGmail: {OK: false, Provider: string(mailer.ProviderGmail), Detail: "construction failed"},
	}
}

type fakeInventory struct {
	run  notify.InventoryRun
	err  error
	runs int
}

func (f *fakeInventory) Run(context.Context) (notify.InventoryRun, error) {
	f.runs++
	return f.run, f.err
}

func adminServer(t *testing.T, admin *MockRecipientAdmin) http.Handler {
	t.Helper()
	webhooks := api.NewWebhookHandler(testConfig(), &fakeClaimer{}, &fakeProcessor{}, &fakeProcessor{}, slog.Default())
	handler := api.NewAdminHandler(admin, fakeDiagnostics{}, &fakeProcessor{}, &fakeProcessor{}, &fakeInventory{}, slog.Default())
	return api.NewRouter(webhooks, handler, slog.Default())
}

func TestAdmin_ListTypes(t *testing.T) {
	t.Parallel()

	srv := adminServer(t, new(MockRecipientAdmin))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/types", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3dcart_failed_webhook")
	assert.Contains(t, rec.Body.String(), "inventory_sync_report")
}

func TestAdmin_ListRecipients(t *testing.T) {
	t.Parallel()

	admin := new(MockRecipientAdmin)
	admin.On("Subscriptions", mock.Anything, "generic").Return([]recipients.Subscription{
		{NotificationType: "generic", Email: "ops@x.com", Active: true},
	}, nil)

	srv := adminServer(t, admin)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/recipients/generic", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops@x.com")
}

func TestAdmin_AddRecipient(t *testing.T) {
	t.Parallel()

	t.Run("all accepted", func(t *testing.T) {
		t.Parallel()

		admin := new(MockRecipientAdmin)
		admin.On("BulkAdd", mock.Anything, "new@x.com", []string{"generic"}).
			Return(map[string]recipients.MutationResult{"generic": {OK: true}})

		srv := adminServer(t, admin)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/recipients/",
			strings.NewReader(`{"email":"new@x.com","types":["generic"]}`))
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("partial failure answers multi-status", func(t *testing.T) {
		t.Parallel()

		admin := new(MockRecipientAdmin)
		admin.On("BulkAdd", mock.Anything, "new@x.com", []string{"generic", "bogus"}).
			Return(map[string]recipients.MutationResult{
				"generic": {OK: true},
				"bogus":   {OK: false, Message: `unknown notification type "bogus"`},
			})

		srv := adminServer(t, admin)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/recipients/",
			strings.NewReader(`{"email":"new@x.com","types":["generic","bogus"]}`))
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMultiStatus, rec.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		t.Parallel()

		srv := adminServer(t, new(MockRecipientAdmin))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/recipients/", strings.NewReader(`{}`))
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdmin_RemoveRecipient(t *testing.T) {
	t.Parallel()

	t.Run("default recipient rejection surfaces", func(t *testing.T) {
		t.Parallel()

		admin := new(MockRecipientAdmin)
		admin.On("Remove", mock.Anything, "generic", "web_dev@lagunatools.com").
			Return(recipients.MutationResult{OK: false, Message: "the default recipient cannot be removed"})

		srv := adminServer(t, admin)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/recipients/",
			strings.NewReader(`{"email":"web_dev@lagunatools.com","type":"generic"}`))
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "default recipient")
	})

	t.Run("accepted removal", func(t *testing.T) {
		t.Parallel()

		admin := new(MockRecipientAdmin)
		admin.On("Remove", mock.Anything, "generic", "ops@x.com").
			Return(recipients.MutationResult{OK: true, Message: "recipient removed"})

		srv := adminServer(t, admin)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/recipients/",
			strings.NewReader(`{"email":"ops@x.com","type":"generic"}`))
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdmin_Providers(t *testing.T) {
	t.Parallel()

	srv := adminServer(t, new(MockRecipientAdmin))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/providers/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "brevo")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/providers/test", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "construction failed")
}

func TestAdmin_RerunOrder(t *testing.T) {
	t.Parallel()

	webhooks := api.NewWebhookHandler(testConfig(), &fakeClaimer{}, &fakeProcessor{}, &fakeProcessor{}, slog.Default())
	orders := &fakeProcessor{}
	handler := api.NewAdminHandler(new(MockRecipientAdmin), fakeDiagnostics{}, orders, &fakeProcessor{}, &fakeInventory{}, slog.Default())
	srv := api.NewRouter(webhooks, handler, slog.Default())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/orders/1056/rerun", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"1056"}, orders.ids)
}

func TestAdmin_SyncInventory(t *testing.T) {
	t.Parallel()

	newServer := func(inventory *fakeInventory) http.Handler {
		webhooks := api.NewWebhookHandler(testConfig(), &fakeClaimer{}, &fakeProcessor{}, &fakeProcessor{}, slog.Default())
		handler := api.NewAdminHandler(new(MockRecipientAdmin), fakeDiagnostics{}, &fakeProcessor{}, &fakeProcessor{}, inventory, slog.Default())
		return api.NewRouter(webhooks, handler, slog.Default())
	}

	t.Run("returns the run summary", func(t *testing.T) {
		t.Parallel()

		inventory := &fakeInventory{run: notify.InventoryRun{
			RunID:       "run-3",
			ItemsSynced: 7,
			ItemsFailed: 1,
			Duration:    3 * time.Minute,
			Details:     []string{"SKU-2: 3dcart 500"},
		}}
		srv := newServer(inventory)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/inventory/sync", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, inventory.runs)
		assert.Contains(t, rec.Body.String(), `"items_synced":7`)
		assert.Contains(t, rec.Body.String(), "SKU-2")
	})

	t.Run("listing failure answers bad gateway", func(t *testing.T) {
		t.Parallel()

		inventory := &fakeInventory{err: errors.New("netsuite 503")}
		srv := newServer(inventory)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/inventory/sync", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	srv := adminServer(t, new(MockRecipientAdmin))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	require.HTTPStatusCode(t, srv.ServeHTTP, http.MethodGet, "/readyz", nil, http.StatusOK)
}
