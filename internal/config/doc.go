// Package config loads runtime configuration for the credvault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-b string    persistence backend (file, bolt, sqlite, postgres, s3, memory)
//	-d string    data directory for the local backends
//	-t int       session inactivity timeout (minutes)
//	-dsn string  postgres connection string
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the session window, so values can
// be either strings like "15m" or integer nanoseconds:
//
//	{
//	  "backend": "bolt",
//	  "data_dir": "/home/user/.credvault",
//	  "session_duration": "15m",
//	  "iterations": 100000
//	}
//
// The s3 backend is configured through the JSON file only
// (s3_region, s3_bucket, s3_prefix, s3_access_key, s3_secret_key,
// s3_base_endpoint).
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
