package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/inkcell/inkcell/internal/eval"
)

// PostgresStore persists workbooks as gob blobs in a single table,
// upserted by id. Grounded on broyeztony-karl's jackc/pgx/v5
// dependency — that repo only ever uses it to hold a connection
// string, never a real query, so this is the pack's first actual
// exercise of the driver, built the way pgx's own pool docs show
// (pgxpool.New, pool.Exec, pool.QueryRow).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to connString and ensures the workbooks
// table exists.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "store: connect")
	}
	const ddl = `CREATE TABLE IF NOT EXISTS workbooks (
		id text PRIMARY KEY,
		snapshot bytea NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "store: create table")
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() { s.pool.Close() }

func (s *PostgresStore) Load(id string) (*eval.Engine, error) {
	ctx := context.Background()
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT snapshot FROM workbooks WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Errorf("store: no workbook %q", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: load %q", id)
	}
	snap, err := decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "store: decode %q", id)
	}
	if snap.Version != snapshotVersion {
		return nil, errors.Errorf("store: %q has snapshot version %d, want %d", id, snap.Version, snapshotVersion)
	}
	return restore(snap)
}

func (s *PostgresStore) Save(id string, e *eval.Engine) error {
	data, err := encode(snapshot(e))
	if err != nil {
		return errors.Wrapf(err, "store: encode %q", id)
	}
	const upsert = `INSERT INTO workbooks (id, snapshot, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`
	if _, err := s.pool.Exec(context.Background(), upsert, id, data); err != nil {
		return errors.Wrapf(err, "store: save %q", id)
	}
	return nil
}

func (s *PostgresStore) Delete(id string) error {
	if _, err := s.pool.Exec(context.Background(), `DELETE FROM workbooks WHERE id = $1`, id); err != nil {
		return errors.Wrapf(err, "store: delete %q", id)
	}
	return nil
}
