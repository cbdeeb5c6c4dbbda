package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mbd888/trapline/internal/pagination"
)

// PostgresStore persists sessions in PostgreSQL. The component state is
// stored as a JSONB blob; the columns that queries need (finalized,
// updated_at) are lifted out of it.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPostgresStore creates a PostgreSQL-backed session store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, ttl: defaultTTL}
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var state []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT state FROM honeypot_sessions WHERE id = $1`, id).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s := &Session{}
	if err := json.Unmarshal(state, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO honeypot_sessions (id, state, finalized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			finalized = EXCLUDED.finalized,
			updated_at = EXCLUDED.updated_at`,
		s.ID, state, s.Finalized, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (p *PostgresStore) Finalize(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE honeypot_sessions
		SET finalized = TRUE,
		    state = jsonb_set(state, '{finalized}', 'true'),
		    updated_at = NOW()
		WHERE id = $1 AND finalized = FALSE`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := p.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM honeypot_sessions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrAlreadyFinalized
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM honeypot_sessions WHERE id = $1`, id)
	return err
}

func (p *PostgresStore) ActiveCount(ctx context.Context) (int, error) {
	var count int
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM honeypot_sessions
		WHERE finalized = FALSE AND updated_at > $1`,
		time.Now().UTC().Add(-p.ttl)).Scan(&count)
	return count, err
}

func (p *PostgresStore) List(ctx context.Context, limit int, after *pagination.Cursor) ([]*Session, error) {
	var afterTime interface{}
	var afterID interface{}
	if after != nil {
		afterTime = after.CreatedAt
		afterID = after.ID
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT state FROM honeypot_sessions
		WHERE $1::timestamptz IS NULL OR (created_at, id) < ($1::timestamptz, $2::text)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`, afterTime, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var state []byte
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		s := &Session{}
		if err := json.Unmarshal(state, s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteExpired removes sessions idle longer than the TTL. Called from
// a periodic job; Postgres has no background sweeper of its own.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := p.db.ExecContext(ctx, `
		DELETE FROM honeypot_sessions WHERE updated_at < $1`,
		time.Now().UTC().Add(-p.ttl))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Migrate creates the sessions table (used in dev/test; prod uses migration files).
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS honeypot_sessions (
			id         TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			finalized  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_honeypot_sessions_updated ON honeypot_sessions(updated_at);
	`)
	return err
}

var _ Store = (*PostgresStore)(nil)
