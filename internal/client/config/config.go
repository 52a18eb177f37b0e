package config

import "time"

// Config holds runtime settings for the admin auth CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the remote admin API.
//   - RequestTimeout: client-side deadline for one API round trip.
//   - PrefsDBPath: sqlite file holding device-local preferences.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	PrefsDBPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.PrefsDBPath = "adminauth.db"
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
