package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/credvault/credvault/internal/buildinfo"
	"github.com/credvault/credvault/internal/cli"
	"github.com/credvault/credvault/internal/config"
	"github.com/credvault/credvault/internal/logging"
	"github.com/credvault/credvault/internal/storage"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer closeStore()

	app, err := cli.NewApp(ctx, cfg, store, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}

// openStore constructs the persistence backend selected by the config and
// returns it with its cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewInMemoryStore(), noop, nil

	case config.BackendFile:
		s, err := storage.NewFileStore(filepath.Join(cfg.DataDir, "vault.json"))
		return s, noop, err

	case config.BackendBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, nil, err
		}
		s, err := storage.NewBoltStore(filepath.Join(cfg.DataDir, "vault.bolt"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, nil, err
		}
		s, err := storage.OpenSQLite(ctx, filepath.Join(cfg.DataDir, "vault.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendPostgres:
		s, err := storage.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendS3:
		s, err := storage.NewS3Store(ctx, cfg.S3)
		return s, noop, err

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
