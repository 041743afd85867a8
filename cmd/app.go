// Package cmd implements the refdata command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/ecb"
	"github.com/etnz/refdata/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ratesCmd{}, "reference data")
	c.Register(&securityCmd{}, "reference data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile          = flag.String("config", "", "Path to a yaml configuration file")
	ecbHostname         = flag.String("ecb-hostname", "", "Hostname of the ECB data API, overrides the configuration")
	yahooQuery1Hostname = flag.String("yahoo-query1-hostname", "", "Hostname of the Yahoo Finance search API, overrides the configuration")
	yahooHostname       = flag.String("yahoo-hostname", "", "Hostname of the Yahoo Finance quote pages, overrides the configuration")
	logLevel            = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	logFile             = flag.String("log-file", "", "Also write logs to this file, rotated, overrides the configuration")
)

var (
	// stdout receives the command output.
	stdout io.Writer = os.Stdout
	// stderr receives logs and error messages.
	stderr io.Writer = os.Stderr
	// httpClient replaces the default http client when not nil.
	httpClient *http.Client
)

// LoadConfig returns the configuration: file, then environment, then flags.
func LoadConfig() (refdata.Config, error) {
	cfg := refdata.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = refdata.LoadConfig(*configFile); err != nil {
			return cfg, err
		}
	} else {
		cfg.OverrideWithEnv()
	}

	for _, f := range []struct {
		value string
		field *string
	}{
		{*ecbHostname, &cfg.ECBHostname},
		{*yahooQuery1Hostname, &cfg.YahooQuery1Hostname},
		{*yahooHostname, &cfg.YahooHostname},
		{*logLevel, &cfg.Logging.Level},
		{*logFile, &cfg.Logging.File},
	} {
		if f.value != "" {
			*f.field = f.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger shared by a command.
//
// The returned closer must be called once the command is done.
func setup() (refdata.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	log, closer := NewLogger(cfg)
	return cfg, log, closer, nil
}

// NewECB returns an exchange rate cache for cfg.
func NewECB(cfg refdata.Config, log zerolog.Logger) *ecb.Cache {
	opts := []ecb.Option{ecb.WithLogger(log)}
	if httpClient != nil {
		opts = append(opts, ecb.WithHTTPClient(httpClient))
	}
	return ecb.New(cfg, opts...)
}

// NewYahoo returns a security cache for cfg.
func NewYahoo(cfg refdata.Config, log zerolog.Logger) *yahoo.Cache {
	opts := []yahoo.Option{yahoo.WithLogger(log)}
	if httpClient != nil {
		opts = append(opts, yahoo.WithHTTPClient(httpClient))
	}
	return yahoo.New(cfg, opts...)
}
