package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Predefined errors for the pg package.
var (
	// ErrEmptyConnectionString indicates no DSN was configured.
	ErrEmptyConnectionString = errors.New("empty postgres connection string")

	// ErrInvalidConfig indicates the DSN did not parse.
	ErrInvalidConfig = errors.New("invalid postgres config")

	// ErrNotReady indicates the database did not answer within the
	// configured attempts.
	ErrNotReady = errors.New("postgres did not become ready in time")

	// ErrHealthcheckFailed indicates a liveness ping failed.
	ErrHealthcheckFailed = errors.New("postgres healthcheck failed")
)

// IsNotFound reports whether err stems from a query with no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKey reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
