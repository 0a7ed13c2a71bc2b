package config

import (
	"flag"
	"os"
	"time"

	"github.com/credvault/credvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string    persistence backend (file, bolt, sqlite, postgres, s3, memory)
//	-d string    data directory for the local backends
//	-t int       session inactivity timeout in minutes
//	-dsn string  postgres connection string
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-t", "-dsn"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "persistence backend")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	sessionMinutes := fs.Int("t", int(cfg.SessionDuration.Minutes()), "session timeout (in minutes)")
	fs.StringVar(&cfg.PostgresDSN, "dsn", cfg.PostgresDSN, "postgres connection string")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionDuration = time.Duration(*sessionMinutes) * time.Minute
}
