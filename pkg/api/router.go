package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seunsodimu/lag-int-sub001/pkg/httpserver"
)

// NewRouter assembles the full HTTP surface: webhook ingestion, the operator
// API and the health probes. Readiness checks are passed through so the
// router stays free of storage dependencies.
func NewRouter(webhooks *WebhookHandler, admin *AdminHandler, log *slog.Logger, readiness ...func(context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", httpserver.HealthCheckHandler(context.Background(), log))
	r.Get("/readyz", httpserver.HealthCheckHandler(context.Background(), log, readiness...))

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/3dcart", webhooks.ThreeDCart)
		r.Post("/hubspot", webhooks.HubSpot)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/types", admin.ListTypes)

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/{type}", admin.ListRecipients)
			r.Post("/", admin.AddRecipient)
			r.Delete("/", admin.RemoveRecipient)
			r.Post("/toggle", admin.ToggleRecipient)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", admin.CurrentProvider)
			r.Post("/test", admin.TestProviders)
		})

		r.Post("/orders/{id}/rerun", admin.RerunOrder)
		r.Post("/contacts/{id}/rerun", admin.RerunContact)
		r.Post("/inventory/sync", admin.SyncInventory)
	})

	return r
}
