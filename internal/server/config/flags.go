package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/upcheck/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-e string   environment name
//	-s string   hashing secret key
//	-t int      token validity, minutes
//	-m int      maximum checks per user
//	-b string   store backend ("file" or "sqlite")
//	-d string   data directory for the file backend
//	-p string   sqlite database path
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-e", "-s", "-t", "-m", "-b", "-d", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.EnvName, "e", config.EnvName, "environment name")
	fs.StringVar(&config.HashingSecret, "s", config.HashingSecret, "hashing secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.IntVar(&config.MaxChecks, "m", config.MaxChecks, "maximum checks per user")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (file|sqlite)")
	fs.StringVar(&config.DataDir, "d", config.DataDir, "data directory")
	fs.StringVar(&config.DatabasePath, "p", config.DatabasePath, "sqlite database path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
}
