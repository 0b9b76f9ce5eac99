package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/webhook"
)

// OrderProcessor handles an order event end to end.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, orderID string) error
}

// ContactProcessor handles a contact event end to end.
type ContactProcessor interface {
	ProcessContact(ctx context.Context, contactID string) error
}

// Claimer marks webhook events as processed, rejecting replays. Release
// drops a claim so a failed event can be retried by the provider.
type Claimer interface {
	Claim(ctx context.Context, source, eventID string) error
	Release(ctx context.Context, source, eventID string)
}

const maxWebhookBody = 1 << 20 // 1 MiB

// WebhookHandler terminates inbound webhooks: signature check, replay
// suppression, then hand-off to the matching pipeline.
type WebhookHandler struct {
	cfg      Config
	deduper  Claimer
	orders   OrderProcessor
	contacts ContactProcessor
	log      *slog.Logger
}

func NewWebhookHandler(cfg Config, deduper Claimer, orders OrderProcessor, contacts ContactProcessor, log *slog.Logger) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, deduper: deduper, orders: orders, contacts: contacts, log: log}
}

// ThreeDCart handles order webhooks.
func (h *WebhookHandler) ThreeDCart(w http.ResponseWriter, r *http.Request) {
	body, eventID, ok := h.verify(w, r, "3dcart", h.cfg.ThreeDCartWebhookSecret)
	if !ok {
		return
	}

	var payload struct {
		OrderID json.Number `json:"OrderID"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.OrderID.String() == "" {
		writeError(w, http.StatusBadRequest, "missing OrderID")
		return
	}

	orderID := payload.OrderID.String()
	if err := h.orders.ProcessOrder(r.Context(), orderID); err != nil {
		// Give the claim back so the provider's retry gets processed.
		h.deduper.Release(r.Context(), "3dcart", eventID)
		h.log.ErrorContext(r.Context(), "Order webhook processing failed",
			logger.OrderID(orderID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "order processing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": true, "order_id": orderID})
}

// HubSpot handles contact webhooks.
func (h *WebhookHandler) HubSpot(w http.ResponseWriter, r *http.Request) {
	body, eventID, ok := h.verify(w, r, "hubspot", h.cfg.HubSpotWebhookSecret)
	if !ok {
		return
	}

	var payload struct {
		ObjectID json.Number `json:"objectId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.ObjectID.String() == "" {
		writeError(w, http.StatusBadRequest, "missing objectId")
		return
	}

	contactID := payload.ObjectID.String()
	if err := h.contacts.ProcessContact(r.Context(), contactID); err != nil {
		h.deduper.Release(r.Context(), "hubspot", eventID)
		h.log.ErrorContext(r.Context(), "Contact webhook processing failed",
			slog.String("contact_id", contactID), logger.Error(err))
		writeError(w, http.StatusBadGateway, "contact processing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processed": true, "contact_id": contactID})
}

// verify authenticates the request and claims its event ID. A duplicate event
// answers 200 so the provider stops retrying, but processing is skipped. The
// claim is taken before processing and handed back on pipeline failure, so an
// event is either fully processed once or retryable.
func (h *WebhookHandler) verify(w http.ResponseWriter, r *http.Request, source, secret string) ([]byte, string, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return nil, "", false
	}

	sig, err := webhook.ExtractSignatureHeaders(r.Header)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing signature headers")
		return nil, "", false
	}
	if err := webhook.VerifySignature(secret, body, sig, h.cfg.SignatureMaxAge); err != nil {
		h.log.WarnContext(r.Context(), "Webhook signature rejected",
			slog.String("source", source), logger.Error(err))
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return nil, "", false
	}

	eventID := sig.ID
	if eventID == "" {
		eventID = sig.Signature + strconv.FormatInt(sig.Timestamp, 10)
	}
	if err := h.deduper.Claim(r.Context(), source, eventID); err != nil {
		if errors.Is(err, webhook.ErrDuplicateEvent) {
			writeJSON(w, http.StatusOK, map[string]any{"processed": false, "duplicate": true})
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return body, eventID, true
}
