// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/edrp-bridge/internal/logger"
	"github.com/woozymasta/edrp-bridge/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"EDRP"`
	Remote    Remote        `group:"Remote API Options" namespace:"api" env-namespace:"EDRP_API"`
	Tracker   Tracker       `group:"Tracker Options" namespace:"tracker" env-namespace:"EDRP_TRACKER"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"EDRP_RATE_LIMIT"`
	Lookup    Lookup        `group:"Lookup Options"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"EDRP_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds the local host adapter configuration.
type Server struct {
	// betteralign:ignore

	Address     string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Host adapter listen address" default:"127.0.0.1:8711"`
	AuthToken   string `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Bearer token required from the host shim (disabled if empty)"`
	MaxBodySize int64  `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming callbacks" default:"1048576"`
	TrustProxy  bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Remote holds the EDRP API client configuration.
type Remote struct {
	// betteralign:ignore

	URL        string        `short:"u" long:"url" env:"URL" description:"EDRP API base URL" default:"http://edrp-api.danowebstudios.com"`
	Timeout    time.Duration `long:"timeout" env:"TIMEOUT" description:"API request timeout" default:"10s"`
	RateCount  int           `long:"rate-count" env:"RATE_COUNT" description:"Outbound cap: requests count (0 disables)" default:"20"`
	RateWindow time.Duration `long:"rate-window" env:"RATE_WINDOW" description:"Outbound cap: window duration" default:"1m"`
}

// Tracker holds session scope and heartbeat configuration.
type Tracker struct {
	// betteralign:ignore

	Groups        []string      `short:"g" long:"group" env:"GROUPS" description:"Tracked private group names" default:"ED RP" env-delim:","`
	CaseSensitive bool          `long:"group-case-sensitive" env:"GROUP_CASE_SENSITIVE" description:"Compare group names case-sensitively"`
	PingInterval  time.Duration `long:"ping-interval" env:"PING_INTERVAL" description:"Minimal interval between heartbeat pings" default:"5m"`
	Unknown       string        `long:"unknown" env:"UNKNOWN" description:"Value sent for a system or station the host does not know" default:"None"`
}

// RateLimit holds the host adapter rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	HardLimitCount int           `long:"hard-count" env:"HARD_COUNT" description:"Hard IP limit: requests count" default:"600"`
	HardLimitWin   time.Duration `long:"hard-window" env:"HARD_WINDOW" description:"Hard IP limit: window duration" default:"1m"`
}

// Lookup holds one-shot query flags; when any is set the query runs and the program exits.
type Lookup struct {
	// betteralign:ignore

	Active      bool `long:"active" description:"Print commanders active on the EDRP API and exit"`
	ActiveCount bool `long:"active-count" description:"Print the count of commanders active on the EDRP API and exit"`
	FakeEvents  int  `long:"gen-fake-events" hidden:"true"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	return cfg
}

// ParseArgs parses args and environment into a validated Config.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges flags cannot express.
func (c *Config) Validate() error {
	if c.Tracker.PingInterval <= 0 {
		return fmt.Errorf("ping interval must be positive, got %s", c.Tracker.PingInterval)
	}
	if len(c.Tracker.Groups) == 0 {
		return fmt.Errorf("at least one tracked group is required")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %s", c.Remote.Timeout)
	}
	if c.Remote.RateCount < 0 {
		return fmt.Errorf("API rate count must not be negative, got %d", c.Remote.RateCount)
	}
	if c.RateLimit.HardLimitCount > 0 && c.RateLimit.HardLimitWin <= 0 {
		return fmt.Errorf("hard limit window must be positive, got %s", c.RateLimit.HardLimitWin)
	}

	return nil
}
