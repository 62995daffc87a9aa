package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Upstream providers.
const (
	ProviderMTGIO    = "mtgio"
	ProviderScryfall = "scryfall"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Upstream UpstreamConfig `toml:"upstream"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Addr              string   `toml:"addr"`
	ReadHeaderTimeout Duration `toml:"read_header_timeout"`
	ShutdownTimeout   Duration `toml:"shutdown_timeout"`
}

type UpstreamConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	// Timeout of zero leaves the transport defaults in charge.
	Timeout Duration `toml:"timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{10 * time.Second},
			ShutdownTimeout:   Duration{10 * time.Second},
		},
		Upstream: UpstreamConfig{
			Provider: ProviderMTGIO,
			BaseURL:  mtgioBaseURL,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the config file at path on top of the defaults. An empty
// path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	// A provider switch without an explicit base URL uses the provider's own.
	if config.Upstream.Provider == ProviderScryfall && !md.IsDefined("upstream", "base_url") {
		config.Upstream.BaseURL = ""
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.ReadHeaderTimeout.Duration < 0 {
		errs = append(errs, errors.New("server.read_header_timeout must not be negative"))
	}
	if c.Server.ShutdownTimeout.Duration < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}

	switch c.Upstream.Provider {
	case ProviderMTGIO, ProviderScryfall:
	default:
		errs = append(errs, fmt.Errorf("upstream.provider %q is not one of %s, %s",
			c.Upstream.Provider, ProviderMTGIO, ProviderScryfall))
	}
	if c.Upstream.Timeout.Duration < 0 {
		errs = append(errs, errors.New("upstream.timeout must not be negative"))
	}

	return errors.Join(errs...)
}
