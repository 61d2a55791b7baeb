package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"complimart/internal/notification"
)

// Postgres backs the store with a single key/value table for deployments
// that already run Postgres and don't want a Redis dependency. The partition
// layout stays byte-identical to the other backends.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the backing table. Called once at startup; safe to
// call repeatedly.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS notification_partitions (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure notification_partitions: %w", err)
	}
	return nil
}

func (s *Postgres) Load(ctx context.Context, identity string) (notification.StoreState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM notification_partitions WHERE key = ANY($1)`,
		keyArray(identity))
	if err != nil {
		return notification.StoreState{}, fmt.Errorf("postgres load: %w", err)
	}
	defer rows.Close()

	byKey := make(map[string][]byte, 3)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return notification.StoreState{}, fmt.Errorf("postgres scan: %w", err)
		}
		byKey[key] = value
	}
	if err := rows.Err(); err != nil {
		return notification.StoreState{}, fmt.Errorf("postgres rows: %w", err)
	}

	return decodeState(
		byKey[notificationsKey(identity)],
		byKey[dismissedKey(identity)],
		byKey[generatedKey(identity)],
	), nil
}

func (s *Postgres) Save(ctx context.Context, identity string, state notification.StoreState) error {
	notifications, dismissed, generated, err := encodeState(normalize(state))
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
		INSERT INTO notification_partitions (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	for _, kv := range []struct {
		key   string
		value []byte
	}{
		{notificationsKey(identity), notifications},
		{dismissedKey(identity), dismissed},
		{generatedKey(identity), generated},
	} {
		if _, err := tx.ExecContext(ctx, upsert, kv.key, kv.value); err != nil {
			return fmt.Errorf("postgres upsert %s: %w", kv.key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

func (s *Postgres) Reset(ctx context.Context, identity string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM notification_partitions WHERE key = ANY($1)`,
		keyArray(identity))
	if err != nil {
		return fmt.Errorf("postgres reset: %w", err)
	}
	return nil
}

// keyArray binds the three partition keys as a Postgres text array.
func keyArray(identity string) any {
	return pq.Array([]string{
		notificationsKey(identity),
		dismissedKey(identity),
		generatedKey(identity),
	})
}
