package config

import "time"

// Config holds runtime settings for the Lightbox admin CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API, without the /api prefix.
//   - HealthAddr: host:port of the gRPC health probe.
//   - RequestTimeout: upper bound for a single call to the server.
type Config struct {
	ServerURL      string
	HealthAddr     string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
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
