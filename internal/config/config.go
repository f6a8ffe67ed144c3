// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"
)

// defaultSessionTTL is used when SESSION_TTL is unset or unparsable.
const defaultSessionTTL = 30 * 24 * time.Hour

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string `json:"address"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `json:"database_dsn"`

	// RedisAddr is the address of the Redis instance backing sessions.
	RedisAddr string `json:"redis_address"`

	// RedisPassword is the Redis auth password, empty when none is set.
	RedisPassword string `json:"redis_password"`

	// SessionTTL is the session lifetime as a Go duration string, e.g. "720h".
	SessionTTL string `json:"session_ttl"`

	// Debug lowers the log level to debug.
	Debug bool `json:"debug"`

	// Config is the path to the config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.RedisAddr, "r", "localhost:6379", "redis address")
	flag.BoolVar(&options.Debug, "debug", false, "enable debug logging")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		options.RedisAddr = redisAddr
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		options.RedisPassword = redisPassword
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		options.SessionTTL = ttl
	}
	if debug := os.Getenv("DEBUG"); debug == "1" || debug == "true" {
		options.Debug = true
	}

	return options
}

// SessionDuration returns the configured session TTL, falling back to the
// default when the value is missing or invalid.
func (o *Options) SessionDuration() time.Duration {
	if o.SessionTTL == "" {
		return defaultSessionTTL
	}
	ttl, err := time.ParseDuration(o.SessionTTL)
	if err != nil || ttl <= 0 {
		log.Printf("invalid SESSION_TTL %q, using default: %v", o.SessionTTL, defaultSessionTTL)
		return defaultSessionTTL
	}
	return ttl
}
