// Package pgx implements store.Store on Postgres via jackc/pgx. All
// statements filter by owner in addition to primary key, and constraint
// violations are translated into domain errors at this boundary so callers
// never see raw SQLSTATE codes.
package pgx

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lattice-hq/lattice/backend/pkg/common"
	"github.com/lattice-hq/lattice/backend/pkg/store"
)

const uniqueViolation = "23505"

type Store struct {
	conn *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// NewStore wraps an existing pgx pool.
func NewStore(conn *pgxpool.Pool) *Store {
	return &Store{conn: conn}
}

// translate maps low-level pgx errors onto the domain taxonomy. conflictMsg
// is used for unique violations, notFoundMsg for missing rows.
func translate(err error, conflictMsg, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.Conflict(conflictMsg)
	}
	return err
}
