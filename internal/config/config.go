package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/credvault/credvault/internal/cryptox"
	"github.com/credvault/credvault/internal/storage"
)

// Supported persistence backends.
const (
	BackendFile     = "file"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

// Config holds runtime settings for the credvault CLI.
//
// Fields:
//   - Backend: which persistence backend keeps the encrypted vault.
//   - DataDir: directory for the local backends (file, bolt, sqlite).
//   - SessionDuration: inactivity window before the session locks.
//   - Iterations: PBKDF2 iteration count for key derivation.
//   - PostgresDSN: connection string for the postgres backend.
//   - S3: object-storage settings for the s3 backend.
type Config struct {
	Backend         string
	DataDir         string
	SessionDuration time.Duration
	Iterations      int
	PostgresDSN     string
	S3              storage.S3Config
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendFile
	c.DataDir = defaultDataDir()
	c.SessionDuration = 15 * time.Minute
	c.Iterations = cryptox.DefaultIterations
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".credvault"
	}
	return filepath.Join(home, ".credvault")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
