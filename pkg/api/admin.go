package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
	"github.com/seunsodimu/lag-int-sub001/pkg/notify"
	"github.com/seunsodimu/lag-int-sub001/pkg/recipients"
)

// RecipientAdmin is the subscription mutation surface exposed over HTTP.
type RecipientAdmin interface {
	BulkAdd(ctx context.Context, email string, notificationTypes []string) map[string]recipients.MutationResult
	Remove(ctx context.Context, notificationType, email string) recipients.MutationResult
	Toggle(ctx context.Context, notificationType, email string) recipients.MutationResult
	Subscriptions(ctx context.Context, notificationType string) ([]recipients.Subscription, error)
}

// ProviderDiagnostics exposes the provider connectivity probes.
type ProviderDiagnostics interface {
	Current() mailer.Descriptor
	TestAll(ctx context.Context) map[mailer.ProviderName]mailer.ConnectivityResult
}

// InventoryRunner performs one inventory sync pass.
type InventoryRunner interface {
	Run(ctx context.Context) (notify.InventoryRun, error)
}

// AdminHandler serves the operator API: recipient management, provider
// diagnostics and manual pipeline reruns.
type AdminHandler struct {
	recipients RecipientAdmin
	providers  ProviderDiagnostics
	orders     OrderProcessor
	contacts   ContactProcessor
	inventory  InventoryRunner
	log        *slog.Logger
}

func NewAdminHandler(recipients RecipientAdmin, providers ProviderDiagnostics, orders OrderProcessor, contacts ContactProcessor, inventory InventoryRunner, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		recipients: recipients,
		providers:  providers,
		orders:     orders,
		contacts:   contacts,
		inventory:  inventory,
		log:        log,
	}
}

// ListTypes returns the closed notification type catalog.
func (h *AdminHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": notify.AllTypes()})
}

// ListRecipients returns all subscriptions for one type.
func (h *AdminHandler) ListRecipients(w http.ResponseWriter, r *http.Request) {
	notificationType := chi.URLParam(r, "type")
	subs, err := h.recipients.Subscriptions(r.Context(), notificationType)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if subs == nil {
		subs = []recipients.Subscription{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

// AddRecipient subscribes one address to one or more types.
func (h *AdminHandler) AddRecipient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string   `json:"email"`
		Types []string `json:"types"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || len(req.Types) == 0 {
		writeError(w, http.StatusBadRequest, "email and types are required")
		return
	}

	results := h.recipients.BulkAdd(r.Context(), req.Email, req.Types)
	status := http.StatusOK
	for _, res := range results {
		if !res.OK {
			status = http.StatusMultiStatus
			break
		}
	}
	writeJSON(w, status, map[string]any{"results": results})
}

// RemoveRecipient deactivates one subscription.
func (h *AdminHandler) RemoveRecipient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "email and type are required")
		return
	}

	res := h.recipients.Remove(r.Context(), req.Type, req.Email)
	if !res.OK {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ToggleRecipient flips a subscription's active flag.
func (h *AdminHandler) ToggleRecipient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Type  string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "email and type are required")
		return
	}

	res := h.recipients.Toggle(r.Context(), req.Type, req.Email)
	if !res.OK {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CurrentProvider reports which provider is active.
func (h *AdminHandler) CurrentProvider(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.providers.Current())
}

// TestProviders probes connectivity of every configured provider.
func (h *AdminHandler) TestProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"results": h.providers.TestAll(r.Context())})
}

// RerunOrder replays an order sync on the manual axis.
func (h *AdminHandler) RerunOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.orders.ProcessOrder(r.Context(), orderID); err != nil {
		h.log.ErrorContext(r.Context(), "Manual order rerun failed",
			logger.OrderID(orderID), logger.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": true, "order_id": orderID})
}

// SyncInventory runs one inventory sync pass and returns its summary. The
// summary email goes out through the notification router regardless.
func (h *AdminHandler) SyncInventory(w http.ResponseWriter, r *http.Request) {
	run, err := h.inventory.Run(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Manual inventory sync failed",
			logger.RunID(run.RunID), logger.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":       run.RunID,
		"items_synced": run.ItemsSynced,
		"items_failed": run.ItemsFailed,
		"duration":     run.Duration.String(),
		"details":      run.Details,
	})
}

// RerunContact replays a contact sync on the manual axis.
func (h *AdminHandler) RerunContact(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "id")
	if err := h.contacts.ProcessContact(r.Context(), contactID); err != nil {
		h.log.ErrorContext(r.Context(), "Manual contact rerun failed",
			slog.String("contact_id", contactID), logger.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": true, "contact_id": contactID})
}
