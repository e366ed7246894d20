package profile

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the table PostgresStore reads and writes. Hosts own migrations;
// the store never creates the table itself.
const Schema = `
CREATE TABLE IF NOT EXISTS user_profiles (
	user_id TEXT PRIMARY KEY,
	profile JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// ErrPostgresUnavailable indicates the database query itself failed.
var ErrPostgresUnavailable = errors.New("profile postgres store unavailable")

// PostgresStore is a durable Service implementation backed by Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed profile store around an
// existing pool. The store does not own the pool and never closes it.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Lookup implements Service.
func (s *PostgresStore) Lookup(ctx context.Context, userID string) (Profile, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, errors.Join(ErrPostgresUnavailable, err)
	}

	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, errors.Join(ErrNotFound, err)
	}
	return p, nil
}

// Save implements Service. Concurrent saves for the same user resolve by
// last-writer-wins upsert.
func (s *PostgresStore) Save(ctx context.Context, p Profile) error {
	if p.UserID == "" {
		return ErrInvalidProfile
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Join(ErrInvalidProfile, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, profile, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = now()`,
		p.UserID, raw)
	if err != nil {
		return errors.Join(ErrPostgresUnavailable, err)
	}
	return nil
}
