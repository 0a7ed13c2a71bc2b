package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/credvault/credvault/internal/storage/migrations"
)

// OpenSQLite opens the SQLite database at dsn, runs migrations, and
// returns a kv-backed store.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db, "sqlite3", migrations.Sqlite()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLStore{
		db: db,
		queries: sqlQueries{
			get: `SELECT value FROM kv WHERE key = ?`,
			upsert: `INSERT INTO kv (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			remove: `DELETE FROM kv WHERE key = ?`,
		},
	}, nil
}
