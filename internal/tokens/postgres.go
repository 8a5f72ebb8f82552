package tokens

import (
	"context"
	"errors"
	"fmt"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/vidfriends/client/internal/db"
)

// PostgresStore persists tokens to PostgreSQL (or CockroachDB) so several
// machines can share one login. Rows are scoped by namespace.
type PostgresStore struct {
	pool      db.Pool
	namespace string
}

// NewPostgresStore constructs a token store backed by PostgreSQL.
func NewPostgresStore(pool db.Pool, namespace string) *PostgresStore {
	if namespace == "" {
		namespace = "default"
	}
	return &PostgresStore{pool: pool, namespace: namespace}
}

// EnsureSchema creates the client_tokens table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS client_tokens (
            namespace TEXT NOT NULL,
            token_key TEXT NOT NULL,
            token_value TEXT NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (namespace, token_key)
        )
    `); err != nil {
		return fmt.Errorf("ensure client_tokens table: %w", err)
	}
	return nil
}

// Get loads a token, returning "" when no row exists.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var value string
	err = conn.QueryRow(ctx, `
        SELECT token_value
        FROM client_tokens
        WHERE namespace = $1 AND token_key = $2
    `, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select token: %w", err)
	}
	return value, nil
}

// Set upserts a single token.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return upsertToken(ctx, tx, s.namespace, key, value)
	})
}

// Delete removes a single token. Missing rows are not an error.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM client_tokens
        WHERE namespace = $1 AND token_key = $2
    `, s.namespace, key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// SavePair writes both tokens in one retried serializable transaction.
func (s *PostgresStore) SavePair(ctx context.Context, pair Pair) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if err := upsertToken(ctx, tx, s.namespace, AccessTokenKey, pair.AccessToken); err != nil {
			return err
		}
		return upsertToken(ctx, tx, s.namespace, RefreshTokenKey, pair.RefreshToken)
	})
}

// ClearPair removes every token in the namespace.
func (s *PostgresStore) ClearPair(ctx context.Context) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM client_tokens WHERE namespace = $1`, s.namespace); err != nil {
			return fmt.Errorf("clear tokens: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func upsertToken(ctx context.Context, tx pgx.Tx, namespace, key, value string) error {
	if value == "" {
		if _, err := tx.Exec(ctx, `
            DELETE FROM client_tokens
            WHERE namespace = $1 AND token_key = $2
        `, namespace, key); err != nil {
			return fmt.Errorf("delete token %s: %w", key, err)
		}
		return nil
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO client_tokens (namespace, token_key, token_value, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (namespace, token_key)
        DO UPDATE SET token_value = EXCLUDED.token_value, updated_at = EXCLUDED.updated_at
    `, namespace, key, value); err != nil {
		return fmt.Errorf("upsert token %s: %w", key, err)
	}
	return nil
}
