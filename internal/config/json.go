package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/credvault/credvault/internal/flagx"
	"github.com/credvault/credvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the session window either as a string
// like "15m" or as integer nanoseconds. After parsing, values are copied
// into the runtime Config.
type JsonConfig struct {
	Backend         string         `json:"backend"`
	DataDir         string         `json:"data_dir"`
	SessionDuration timex.Duration `json:"session_duration"`
	Iterations      int            `json:"iterations"`
	PostgresDSN     string         `json:"postgres_dsn"`

	S3Region       string `json:"s3_region"`
	S3Bucket       string `json:"s3_bucket"`
	S3Prefix       string `json:"s3_prefix"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson overlays cfg with values loaded from a JSON file selected via
// the -c or -config flags. Empty JSON fields leave the current value in
// place, so the file only needs to name what it changes. Intended usage is
// defaults -> parseJson -> parseFlags, where later stages override earlier
// ones. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Backend != "" {
		cfg.Backend = jc.Backend
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.SessionDuration.Duration != 0 {
		cfg.SessionDuration = time.Duration(jc.SessionDuration.Duration)
	}
	if jc.Iterations != 0 {
		cfg.Iterations = jc.Iterations
	}
	if jc.PostgresDSN != "" {
		cfg.PostgresDSN = jc.PostgresDSN
	}

	if jc.S3Region != "" {
		cfg.S3.Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3.Bucket = jc.S3Bucket
	}
	if jc.S3Prefix != "" {
		cfg.S3.Prefix = jc.S3Prefix
	}
	if jc.S3AccessKey != "" {
		cfg.S3.AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3.SecretKey = jc.S3SecretKey
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3.BaseEndpoint = jc.S3BaseEndpoint
	}
}
