package storage

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/credvault/credvault/internal/storage/migrations"
)

// OpenPostgres connects to the Postgres instance at dsn, runs migrations,
// and returns a kv-backed store. Intended for a vault blob hosted on a
// database the user controls; the blob is ciphertext either way.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db, "postgres", migrations.Postgres()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLStore{
		db: db,
		queries: sqlQueries{
			get: `SELECT value FROM kv WHERE key = $1`,
			upsert: `INSERT INTO kv (key, value) VALUES ($1, $2)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			remove: `DELETE FROM kv WHERE key = $1`,
		},
	}, nil
}
