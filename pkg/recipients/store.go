package recipients

import (
	"context"
	"time"
)

// Subscription is one (notification type, email) row. Uniqueness on the pair
// is enforced by the storage schema; removal is modeled as deactivation so a
// re-added address reactivates its existing row.
type Subscription struct {
	NotificationType string    `json:"notification_type"`
	Email            string    `json:"email"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Store handles subscription persistence.
type Store interface {
	// ListActive returns the active recipient emails for a type.
	ListActive(ctx context.Context, notificationType string) ([]string, error)

	// List returns all subscriptions for a type, active or not.
	List(ctx context.Context, notificationType string) ([]Subscription, error)

	// Upsert inserts an active subscription or reactivates an existing one.
	Upsert(ctx context.Context, notificationType, email string) error

	// SetActive flips the active flag. It reports false when no row matched.
	SetActive(ctx context.Context, notificationType, email string, active bool) (bool, error)

	// Get returns a single subscription; pgx.ErrNoRows when absent.
	Get(ctx context.Context, notificationType, email string) (*Subscription, error)
}
