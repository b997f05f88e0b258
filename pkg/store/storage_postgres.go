package store

import (
	"context"
	"database/sql"
	"os"

	// registers the "postgres" database/sql driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS guitar_storage (
	key  TEXT PRIMARY KEY,
	data BYTEA NOT NULL
)`

// PostgresStorage implements Storage with one row per key.
type PostgresStorage struct {
	db     *sql.DB
	write  *sql.Stmt
	read   *sql.Stmt
	list   *sql.Stmt
	delete *sql.Stmt
}

// NewPostgresStorage connects to dsn, creates the storage table and prepares all statements.
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	p, err := newPostgresStorage(ctx, db)
	if err != nil {
		return nil, multierr.Append(err, db.Close())
	}
	return p, nil
}

func newPostgresStorage(ctx context.Context, db *sql.DB) (*PostgresStorage, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to reach postgres")
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, errors.Wrap(err, "failed to create storage table")
	}

	p := &PostgresStorage{db: db}
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&p.write, `INSERT INTO guitar_storage (key, data) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data`},
		{&p.read, `SELECT data FROM guitar_storage WHERE key = $1`},
		{&p.list, `SELECT key FROM guitar_storage WHERE starts_with(key, $1) ORDER BY key COLLATE "C" DESC`},
		{&p.delete, `DELETE FROM guitar_storage WHERE key = $1`},
	}
	for _, s := range stmts {
		stmt, err := db.PrepareContext(ctx, s.query)
		if err != nil {
			return nil, multierr.Append(errors.Wrap(err, "failed to prepare statement"), p.closeStmts())
		}
		*s.dst = stmt
	}
	return p, nil
}

func (p *PostgresStorage) Write(ctx context.Context, key string, data []byte) error {
	_, err := p.write.ExecContext(ctx, key, data)
	return err
}

func (p *PostgresStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.read.QueryRowContext(ctx, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, os.ErrNotExist
	}
	return data, err
}

func (p *PostgresStorage) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.list.QueryContext(ctx, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (p *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := p.delete.ExecContext(ctx, key)
	return err
}

func (p *PostgresStorage) Close() error {
	return multierr.Append(p.closeStmts(), p.db.Close())
}

func (p *PostgresStorage) closeStmts() error {
	var err error
	for _, stmt := range []*sql.Stmt{p.write, p.read, p.list, p.delete} {
		if stmt != nil {
			err = multierr.Append(err, stmt.Close())
		}
	}
	return err
}
