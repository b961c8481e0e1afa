// Package config reads the server's environment-variable configuration.
// There is no config file and no subcommands, so — unlike go-kgp's
// TOML-backed Conf — this stays a flat struct populated from os.Getenv
// with defaults, not a parsed document.
package config

import (
	"os"
	"strconv"
)

// Config holds the server's full runtime configuration.
type Config struct {
	Port                   string
	AllowedOrigin          string
	ReconnectGraceSeconds  int
	DatabasePath           string
}

const (
	defaultPort          = "3001"
	defaultOrigin        = "http://localhost:3000"
	defaultGraceSeconds  = 30
	defaultDatabasePath  = "bgserver.db"
)

// FromEnv builds a Config from the process environment, falling back
// to the documented defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		Port:                  defaultPort,
		AllowedOrigin:         defaultOrigin,
		ReconnectGraceSeconds: defaultGraceSeconds,
		DatabasePath:          defaultDatabasePath,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ALLOWED_ORIGIN"); v != "" {
		cfg.AllowedOrigin = v
	}
	if v := os.Getenv("RECONNECT_GRACE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReconnectGraceSeconds = n
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	return cfg
}
