package config

import "time"

// Config holds runtime settings for the StudyNotes CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - ValidationDeadline: bound on the startup credential check.
//   - DatabaseDSN: path/DSN of the local SQLite database.
type Config struct {
	ServerBaseURL      string
	RequestTimeout     time.Duration
	ValidationDeadline time.Duration
	DatabaseDSN        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 12 * time.Second
	c.ValidationDeadline = 5 * time.Second
	c.DatabaseDSN = "studynotes.db"
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
