package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/banachtech/optionmc/convergence"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS api_keys (
	prefix     TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	hash       BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS reports (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	body       JSONB NOT NULL
);`

// SQLStore provides all functions to execute db queries and transactions.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore connects to Postgres and creates the tables if needed.
func OpenSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	store := NewSQLStore(conn)
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (store *SQLStore) Close() error {
	return store.db.Close()
}

// execTx executes a function within a database transaction.
func (store *SQLStore) execTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (store *SQLStore) CreateKey(ctx context.Context, key APIKey) error {
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO api_keys (prefix, label, hash, created_at, expires_at) VALUES ($1, $2, $3, $4, $5)`,
		key.Prefix, key.Label, key.Hash, key.CreatedAt, key.ExpiresAt)
	return err
}

func (store *SQLStore) GetKey(ctx context.Context, prefix string) (APIKey, error) {
	var key APIKey
	err := store.db.QueryRowContext(ctx,
		`SELECT prefix, label, hash, created_at, expires_at FROM api_keys WHERE prefix = $1`, prefix).
		Scan(&key.Prefix, &key.Label, &key.Hash, &key.CreatedAt, &key.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return APIKey{}, fmt.Errorf("key %s: %w", prefix, ErrNotFound)
	}
	return key, err
}

// SaveReport replaces any report stored under the same ID.
func (store *SQLStore) SaveReport(ctx context.Context, rep *convergence.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return store.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, rep.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO reports (id, name, body) VALUES ($1, $2, $3)`, rep.ID, rep.Name, body)
		return err
	})
}

func (store *SQLStore) GetReport(ctx context.Context, id uuid.UUID) (*convergence.Report, error) {
	var body []byte
	err := store.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = $1`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var rep convergence.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (store *SQLStore) ListReports(ctx context.Context) ([]ReportInfo, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT id, name, created_at FROM reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReportInfo{}
	for rows.Next() {
		var r ReportInfo
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
