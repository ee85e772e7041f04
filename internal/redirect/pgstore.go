package redirect

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/qrdirect/internal/errx"
)

// querier is an internal interface that abstracts *pgxpool.Pool
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const readMappingSQL = `
	SELECT mapping FROM redirect_config WHERE id = $1`

// The jsonb || operator merges per top-level key server-side, so a partial
// write never clobbers keys it doesn't mention and concurrent writers are
// last-writer-wins for the whole statement.
const mergeMappingSQL = `
	INSERT INTO redirect_config (id, mapping)
	VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE
	SET mapping = redirect_config.mapping || EXCLUDED.mapping,
	    updated_at = now()`

// PGStore is the Postgres-backed Store. The whole mapping lives in a single
// jsonb document row, keyed by a constant id.
type PGStore struct {
	q        querier
	recordID string
}

// NewPGStore creates a Store backed by the given pool (or anything that can
// run queries, which is what tests substitute).
func NewPGStore(q querier) *PGStore {
	return &PGStore{
		q:        q,
		recordID: RecordID,
	}
}

func (s *PGStore) Read(ctx context.Context) (Mapping, error) {
	const op = "redirect.pgstore.Read"

	var raw []byte
	if err := s.q.QueryRow(ctx, readMappingSQL, s.recordID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errx.E(op, errx.NotFound, err)
		}
		return nil, errx.E(op, errx.Unavailable, err)
	}

	var m Mapping
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errx.E(op, errx.Internal, err)
	}
	if m == nil {
		m = Mapping{}
	}
	return m, nil
}

func (s *PGStore) Write(ctx context.Context, partial Mapping) error {
	const op = "redirect.pgstore.Write"

	if len(partial) == 0 {
		return errx.E(op, errx.Invalid, errors.New("empty partial write"))
	}

	payload, err := json.Marshal(partial)
	if err != nil {
		return errx.E(op, errx.Internal, err)
	}

	if _, err := s.q.Exec(ctx, mergeMappingSQL, s.recordID, payload); err != nil {
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}
