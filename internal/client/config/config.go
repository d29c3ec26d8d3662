package config

import "time"

// Config holds runtime settings for the StoreBox CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend REST API.
//   - DatabaseDSN: path of the local SQLite database (tokens, search history).
//   - SearchDebounce: how long incremental search waits after the last
//     keystroke before querying the server.
//   - RequestTimeout: per-request deadline for API calls.
type Config struct {
	ServerEndpointAddr string
	DatabaseDSN        string
	SearchDebounce     time.Duration
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "storebox.db"
	c.SearchDebounce = 500 * time.Millisecond
	c.RequestTimeout = 30 * time.Second
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
