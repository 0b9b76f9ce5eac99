package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
)

// dedupClient is the slice of the redis API the deduper needs. Satisfied by
// *redis.Client and by stubs in tests.
type dedupClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Deduper suppresses replayed webhook events using a redis SETNX claim per
// event ID. The claim expires after the retention window so storage stays
// bounded; providers do not redeliver beyond a few hours in practice.
type Deduper struct {
	client dedupClient
	ttl    time.Duration
	log    *slog.Logger
}

const defaultDedupTTL = 24 * time.Hour

func NewDeduper(client dedupClient, ttl time.Duration, log *slog.Logger) *Deduper {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &Deduper{client: client, ttl: ttl, log: log}
}

// Claim atomically marks an event as processed. It returns ErrDuplicateEvent
// when the event was already claimed. Redis being unreachable fails open: the
// event is treated as new, because processing a webhook twice is recoverable
// while dropping one is not.
func (d *Deduper) Claim(ctx context.Context, source, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidPayload)
	}

	key := fmt.Sprintf("webhook:dedup:%s:%s", source, eventID)
	fresh, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.log.LogAttrs(ctx, slog.LevelWarn, "Dedup store unreachable, processing event without replay protection",
			logger.Component("webhook"),
			slog.String("source", source),
			logger.Error(err),
		)
		return nil
	}
	if !fresh {
		return fmt.Errorf("%w: %s event %s", ErrDuplicateEvent, source, eventID)
	}
	return nil
}

// Release drops a claim so the provider's retry of a failed event is not
// answered as a duplicate. Best-effort: a redis error is logged and the claim
// simply expires with its TTL.
func (d *Deduper) Release(ctx context.Context, source, eventID string) {
	key := fmt.Sprintf("webhook:dedup:%s:%s", source, eventID)
	if err := d.client.Del(ctx, key).Err(); err != nil {
		d.log.LogAttrs(ctx, slog.LevelWarn, "Failed to release dedup claim",
			logger.Component("webhook"),
			slog.String("source", source),
			logger.Error(err),
		)
	}
}
