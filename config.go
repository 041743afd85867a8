package refdata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default hostnames of the remote services.
const (
	DefaultECBHostname         = "sdw-wsrest.ecb.europa.eu"
	DefaultYahooQuery1Hostname = "query1.finance.yahoo.com"
	DefaultYahooHostname       = "finance.yahoo.com"
)

// Environment variables that override the configuration file.
const (
	EnvECBHostname         = "REFDATA_ECB_HOSTNAME"
	EnvYahooQuery1Hostname = "REFDATA_YAHOO_QUERY1_HOSTNAME"
	EnvYahooHostname       = "REFDATA_YAHOO_HOSTNAME"
)

// Config holds the hostnames used to build request urls.
//
// They can be changed to route requests through a proxy, for instance when the
// caller is not allowed to reach the services directly. A hostname may carry a port.
type Config struct {
	ECBHostname         string `yaml:"ecb_hostname"`
	YahooQuery1Hostname string `yaml:"yahoo_query1_hostname"`
	YahooHostname       string `yaml:"yahoo_hostname"`

	Logging struct {
		Level string `yaml:"level"` // debug, info, warn or error.
		File  string `yaml:"file"`  // optional rotated log file.
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration reaching the services directly.
func DefaultConfig() Config {
	var cfg Config
	cfg.ECBHostname = DefaultECBHostname
	cfg.YahooQuery1Hostname = DefaultYahooQuery1Hostname
	cfg.YahooHostname = DefaultYahooHostname
	cfg.Logging.Level = "info"
	return cfg
}

// LoadConfig reads a yaml configuration file.
//
// Fields absent from the file keep their default value, then environment variables
// take precedence over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	cfg.OverrideWithEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %q: %w", path, err)
	}
	return cfg, nil
}

// OverrideWithEnv replaces hostnames by the REFDATA_* environment variables that are set.
func (c *Config) OverrideWithEnv() {
	if h := os.Getenv(EnvECBHostname); h != "" {
		c.ECBHostname = h
	}
	if h := os.Getenv(EnvYahooQuery1Hostname); h != "" {
		c.YahooQuery1Hostname = h
	}
	if h := os.Getenv(EnvYahooHostname); h != "" {
		c.YahooHostname = h
	}
}

// Validate checks that every hostname is a bare host, with an optional port.
func (c Config) Validate() error {
	hosts := []struct{ field, value string }{
		{"ecb_hostname", c.ECBHostname},
		{"yahoo_query1_hostname", c.YahooQuery1Hostname},
		{"yahoo_hostname", c.YahooHostname},
	}
	for _, h := range hosts {
		if err := ValidateHostname(h.value); err != nil {
			return fmt.Errorf("%s: %w", h.field, err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// ValidateHostname checks that h is a hostname usable in "https://<h>/path".
func ValidateHostname(h string) error {
	switch {
	case h == "":
		return fmt.Errorf("empty hostname")
	case strings.Contains(h, "://"):
		return fmt.Errorf("hostname %q must not contain a scheme", h)
	case strings.ContainsAny(h, "/?# "):
		return fmt.Errorf("hostname %q must not contain a path, a query or spaces", h)
	}
	return nil
}
