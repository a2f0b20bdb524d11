package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/upcheck/internal/flagx"
	"github.com/dmitrijs2005/upcheck/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for the token validity field, which
// allows parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its non-zero fields are copied
// into the runtime Config struct.
type JsonConfig struct {
	EnvName               string         `json:"env_name"`
	EndpointAddr          string         `json:"endpoint_addr"`
	HashingSecret         string         `json:"hashing_secret"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	MaxChecks             int            `json:"max_checks"`
	StoreBackend          string         `json:"store_backend"`
	DataDir               string         `json:"data_dir"`
	DatabasePath          string         `json:"database_path"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. Only fields present (non-zero) in the file
// override the defaults, so a partial file keeps the rest of the defaults
// intact. If the file cannot be read or contains invalid JSON, the function
// panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EnvName != "" {
		config.EnvName = c.EnvName
	}
	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.HashingSecret != "" {
		config.HashingSecret = c.HashingSecret
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.MaxChecks != 0 {
		config.MaxChecks = c.MaxChecks
	}
	if c.StoreBackend != "" {
		config.StoreBackend = c.StoreBackend
	}
	if c.DataDir != "" {
		config.DataDir = c.DataDir
	}
	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
}
