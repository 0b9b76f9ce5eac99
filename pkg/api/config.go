package api

import "time"

type Config struct {
	// Webhook secrets are per-source so a leaked key only exposes one channel.
	ThreeDCartWebhookSecret string `env:"THREEDCART_WEBHOOK_SECRET,required"`
	HubSpotWebhookSecret    string `env:"HUBSPOT_WEBHOOK_SECRET,required"`

	SignatureMaxAge time.Duration `env:"WEBHOOK_SIGNATURE_MAX_AGE" envDefault:"5m"`
	DedupTTL        time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"24h"`
}
