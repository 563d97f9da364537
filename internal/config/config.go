// Package config reads the environment the app runs with.
package config

import "os"

// DefaultAPIURL is the production API base, version included.
const DefaultAPIURL = "https://api.emaquis-api.fyi/api/v1"

// DashboardURL is the web dashboard the dashboard subcommand opens.
const DashboardURL = "https://app.emaquis-api.fyi"

type Config struct {
	// APIURL is the REST base URL (MAQUIS_API_URL).
	APIURL string
	// Token is a fixed bearer token (MAQUIS_TOKEN). When set it takes
	// precedence over the session and the stored token.
	Token string
	// ConfigDir overrides ~/.maquis (MAQUIS_CONFIG_DIR).
	ConfigDir string
}

func Load() Config {
	cfg := Config{
		APIURL:    os.Getenv("MAQUIS_API_URL"),
		Token:     os.Getenv("MAQUIS_TOKEN"),
		ConfigDir: os.Getenv("MAQUIS_CONFIG_DIR"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	return cfg
}
