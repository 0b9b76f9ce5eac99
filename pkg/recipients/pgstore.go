package recipients

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seunsodimu/lag-int-sub001/pkg/pg"
)

// PGStore persists subscriptions in the notification_recipients table.
// The pool is opened lazily on first use so a resolver can be constructed
// without a reachable database; callers that only ever hit the static
// fallback never pay for a connection.
type PGStore struct {
	cfg pg.Config
	log *slog.Logger

	once    sync.Once
	pool    *pgxpool.Pool
	connErr error
}

func NewPGStore(cfg pg.Config, log *slog.Logger) *PGStore {
	return &PGStore{cfg: cfg, log: log}
}

func (s *PGStore) conn(ctx context.Context) (*pgxpool.Pool, error) {
	s.once.Do(func() {
		s.pool, s.connErr = pg.Connect(ctx, s.cfg)
	})
	return s.pool, s.connErr
}

// Close releases the pool if it was ever opened.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PGStore) ListActive(ctx context.Context, notificationType string) ([]string, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT recipient_email FROM notification_recipients
		 WHERE notification_type = $1 AND active`, notificationType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (s *PGStore) List(ctx context.Context, notificationType string) ([]Subscription, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT notification_type, recipient_email, active, created_at, updated_at
		 FROM notification_recipients
		 WHERE notification_type = $1
		 ORDER BY recipient_email`, notificationType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.NotificationType, &sub.Email, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Upsert relies on the (notification_type, recipient_email) unique constraint:
// a conflicting insert reactivates the existing row instead of duplicating it.
func (s *PGStore) Upsert(ctx context.Context, notificationType, email string) error {
	pool, err := s.conn(ctx)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO notification_recipients (notification_type, recipient_email, active)
		 VALUES ($1, $2, TRUE)
		 ON CONFLICT (notification_type, recipient_email)
		 DO UPDATE SET active = TRUE, updated_at = now()`,
		notificationType, strings.ToLower(email))
	return err
}

func (s *PGStore) SetActive(ctx context.Context, notificationType, email string, active bool) (bool, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return false, err
	}

	tag, err := pool.Exec(ctx,
		`UPDATE notification_recipients
		 SET active = $3, updated_at = now()
		 WHERE notification_type = $1 AND recipient_email = $2`,
		notificationType, strings.ToLower(email), active)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) Get(ctx context.Context, notificationType, email string) (*Subscription, error) {
	pool, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	err = pool.QueryRow(ctx,
		`SELECT notification_type, recipient_email, active, created_at, updated_at
		 FROM notification_recipients
		 WHERE notification_type = $1 AND recipient_email = $2`,
		notificationType, strings.ToLower(email)).
		Scan(&sub.NotificationType, &sub.Email, &sub.Active, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
