package recipients

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seunsodimu/lag-int-sub001/pkg/logger"
	"github.com/seunsodimu/lag-int-sub001/pkg/mailer"
	"github.com/seunsodimu/lag-int-sub001/pkg/pg"
)

// MutationResult is the structured outcome of a subscription mutation.
// Mutations never return Go errors to callers: rejections (default recipient,
// invalid email, unknown type) and storage failures all land here so the
// admin surface can report them uniformly.
type MutationResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func accepted(msg string) MutationResult { return MutationResult{OK: true, Message: msg} }
func rejected(msg string) MutationResult { return MutationResult{Message: msg} }

// Resolver computes the effective destination list for a notification type
// and guards the subscription mutation boundary. The default recipient is a
// member of every resolved list and can never be deactivated or removed; that
// invariant lives here, not in storage.
type Resolver struct {
	store            Store
	defaultRecipient string
	known            map[string]struct{}
	log              *slog.Logger
}

// NewResolver wires the resolver against a store and the closed catalog of
// notification types. The catalog is injected so the resolver stays agnostic
// of which subsystem defines the types.
func NewResolver(store Store, defaultRecipient string, knownTypes []string, log *slog.Logger) (*Resolver, error) {
	if !mailer.ValidEmail(defaultRecipient) {
		return nil, fmt.Errorf("recipients: default recipient %q is not a valid email address", defaultRecipient)
	}
	if len(knownTypes) == 0 {
		return nil, fmt.Errorf("recipients: notification type catalog must not be empty")
	}

	known := make(map[string]struct{}, len(knownTypes))
	for _, t := range knownTypes {
		known[t] = struct{}{}
	}
	return &Resolver{
		store:            store,
		defaultRecipient: strings.ToLower(defaultRecipient),
		known:            known,
		log:              log,
	}, nil
}

// DefaultRecipient returns the non-removable fallback address.
func (r *Resolver) DefaultRecipient() string {
	return r.defaultRecipient
}

// Resolve returns the deduplicated active recipients for a type, always
// including the default recipient. Storage failure is not fatal: notification
// delivery is best-effort and must never block the business operation that
// triggered it, so the resolver degrades to the default recipient alone and
// logs a warning.
func (r *Resolver) Resolve(ctx context.Context, notificationType string) []string {
	emails, err := r.store.ListActive(ctx, notificationType)
	if err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "Recipient lookup failed, degrading to default recipient",
			logger.NotificationType(notificationType),
			logger.Error(err),
		)
		return []string{r.defaultRecipient}
	}

	seen := make(map[string]struct{}, len(emails)+1)
	resolved := make([]string, 0, len(emails)+1)
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		resolved = append(resolved, email)
	}

	if _, present := seen[r.defaultRecipient]; !present {
		resolved = append(resolved, r.defaultRecipient)
	}
	return resolved
}

// Add subscribes an address to a type. Re-adding a deactivated address
// reactivates its existing row rather than erroring.
func (r *Resolver) Add(ctx context.Context, notificationType, email string) MutationResult {
	if !mailer.ValidEmail(email) {
		return rejected(fmt.Sprintf("%q is not a valid email address", email))
	}
	if !r.knownType(notificationType) {
		return rejected(fmt.Sprintf("unknown notification type %q", notificationType))
	}

	if err := r.store.Upsert(ctx, notificationType, email); err != nil {
		r.log.LogAttrs(ctx, slog.LevelWarn, "Failed to add recipient subscription",
			logger.NotificationType(notificationType),
			logger.Error(err),
		)
		return rejected("storage error: " + err.Error())
	}
	return accepted("recipient subscribed")
}

// Remove deactivates a subscription. The default recipient is immune.
func (r *Resolver) Remove(ctx context.Context, notificationType, email string) MutationResult {
	if r.isDefault(email) {
		return rejected("the default recipient cannot be removed")
	}
	if !r.knownType(notificationType) {
		return rejected(fmt.Sprintf("unknown notification type %q", notificationType))
	}

	affected, err := r.store.SetActive(ctx, notificationType, email, false)
	if err != nil {
		return rejected("storage error: " + err.Error())
	}
	if !affected {
		return rejected("no subscription found for this address")
	}
	return accepted("recipient removed")
}

// Toggle flips a subscription's active flag. The default recipient is immune.
func (r *Resolver) Toggle(ctx context.Context, notificationType, email string) MutationResult {
	if r.isDefault(email) {
		return rejected("the default recipient cannot be deactivated")
	}
	if !r.knownType(notificationType) {
		return rejected(fmt.Sprintf("unknown notification type %q", notificationType))
	}

	sub, err := r.store.Get(ctx, notificationType, email)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return rejected("no subscription found for this address")
		}
		return rejected("storage error: " + err.Error())
	}

	if _, err := r.store.SetActive(ctx, notificationType, email, !sub.Active); err != nil {
		return rejected("storage error: " + err.Error())
	}
	if sub.Active {
		return accepted("recipient deactivated")
	}
	return accepted("recipient activated")
}

// BulkAdd applies Add across a set of types and reports per-type outcomes so
// partial failures are visible without aborting the whole batch.
func (r *Resolver) BulkAdd(ctx context.Context, email string, notificationTypes []string) map[string]MutationResult {
	results := make(map[string]MutationResult, len(notificationTypes))
	for _, t := range notificationTypes {
		results[t] = r.Add(ctx, t, email)
	}
	return results
}

// Subscriptions lists all rows for a type, for the admin surface.
func (r *Resolver) Subscriptions(ctx context.Context, notificationType string) ([]Subscription, error) {
	if !r.knownType(notificationType) {
		return nil, fmt.Errorf("recipients: unknown notification type %q", notificationType)
	}
	return r.store.List(ctx, notificationType)
}

func (r *Resolver) knownType(notificationType string) bool {
	_, ok := r.known[notificationType]
	return ok
}

func (r *Resolver) isDefault(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), r.defaultRecipient)
}
