package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of the Store interface.
//
// Expected schema:
//
//	CREATE TABLE messages (
//	    id          UUID PRIMARY KEY,
//	    key         TEXT NOT NULL,
//	    env         TEXT NOT NULL,
//	    description TEXT,
//	    enabled     BOOLEAN NOT NULL DEFAULT FALSE,
//	    audience    JSONB,
//	    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    UNIQUE (key, env)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const selectColumns = `id, key, env, description, enabled, audience, updated_at`

// GetAllMessages retrieves all messages for the given environment.
func (p *PostgresStore) GetAllMessages(ctx context.Context, env string) ([]Message, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM messages WHERE env = $1 ORDER BY key`, env)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// GetMessageByKey retrieves a single message by key and environment.
func (p *PostgresStore) GetMessageByKey(ctx context.Context, key, env string) (*Message, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM messages WHERE key = $1 AND env = $2`, key, env)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// UpsertMessage creates or updates a message keyed by (key, env).
func (p *PostgresStore) UpsertMessage(ctx context.Context, params UpsertParams) error {
	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}

	audience := params.Audience
	if len(audience) == 0 {
		audience = []byte("{}")
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO messages (id, key, env, description, enabled, audience, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (key, env) DO UPDATE SET
			description = EXCLUDED.description,
			enabled     = EXCLUDED.enabled,
			audience    = EXCLUDED.audience,
			updated_at  = now()`,
		id, params.Key, params.Env,
		pgtype.Text{String: params.Description, Valid: true},
		params.Enabled, audience)
	return err
}

// DeleteMessage removes a message. Idempotent.
func (p *PostgresStore) DeleteMessage(ctx context.Context, key, env string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM messages WHERE key = $1 AND env = $2`, key, env)
	return err
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanMessage(row pgx.Row) (Message, error) {
	var (
		msg         Message
		description pgtype.Text
	)
	if err := row.Scan(&msg.ID, &msg.Key, &msg.Env, &description, &msg.Enabled, &msg.Audience, &msg.UpdatedAt); err != nil {
		return Message{}, err
	}
	if description.Valid {
		msg.Description = description.String
	}
	return msg, nil
}
