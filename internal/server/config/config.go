// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Backend names accepted in Config.StoreBackend.
const (
	StoreBackendFile   = "file"
	StoreBackendSQLite = "sqlite"
)

// Config holds runtime settings for the upcheck server.
//
// Fields:
//   - EnvName: environment label, included in startup logs.
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - HashingSecret: key for the password digest. Do not use test defaults in prod.
//   - TokenValidityDuration: lifetime of an issued or extended access token.
//   - MaxChecks: maximum number of checks a single user may own.
//   - StoreBackend: record store implementation, "file" or "sqlite".
//   - DataDir: directory for the file backend's collections.
//   - DatabasePath: sqlite database file for the sqlite backend.
type Config struct {
	EnvName               string
	EndpointAddr          string
	HashingSecret         string
	TokenValidityDuration time.Duration
	MaxChecks             int
	StoreBackend          string
	DataDir               string
	DatabasePath          string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EnvName = "staging"
	c.EndpointAddr = ":3000"
	c.HashingSecret = "thisIsASecret"
	c.TokenValidityDuration = 1 * time.Hour
	c.MaxChecks = 5
	c.StoreBackend = StoreBackendFile
	c.DataDir = ".data"
	c.DatabasePath = "upcheck.db"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
