package config

import "time"

// Config holds runtime settings for the LoveOps CLI.
//
// An empty ServerEndpointAddr disables everything remote: login, sync and
// photo upload. The app then works purely on the local database.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DBPath              string
	SyncDebounce        time.Duration
	SyncRetryDelay      time.Duration
	LogFile             string
	LogLevel            string
	ExportDir           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DBPath = "loveops.db"
	c.SyncDebounce = 1500 * time.Millisecond
	c.SyncRetryDelay = 2 * time.Second
	c.LogFile = "loveops.log"
	c.LogLevel = "info"
	c.ExportDir = "exports"
}

// SyncEnabled reports whether a server is configured.
func (c *Config) SyncEnabled() bool {
	return c.ServerEndpointAddr != ""
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
