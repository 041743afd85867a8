package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/renderer"
	"github.com/google/subcommands"
)

type securityCmd struct {
	json bool
}

func (*securityCmd) Name() string     { return "security" }
func (*securityCmd) Synopsis() string { return "identify securities by ISIN" }
func (*securityCmd) Usage() string {
	return `refdata security [-json] <isin>...

  Searches each ISIN on Yahoo Finance and displays its type (Stock or ETF),
  its name and, for funds, whether it accumulates its income.
`
}

func (c *securityCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print securities as JSON, by ISIN.")
}

func (c *securityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "at least one ISIN is required")
		return subcommands.ExitUsageError
	}

	cfg, log, closer, err := setup()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer closer.Close()
	cache := NewYahoo(cfg, log)

	var errs error
	rows := make([]renderer.SecurityRow, 0, f.NArg())
	found := make(map[string]refdata.Security)
	for _, isin := range f.Args() {
		if err := refdata.ValidateISIN(isin); err != nil {
			log.Warn().Err(err).Str("isin", isin).Msg("searching an invalid ISIN")
		}
		sec, err := cache.Security(ctx, isin)
		if err != nil {
			log.Error().Err(err).Str("isin", isin).Msg("cannot identify security")
			errs = errors.Join(errs, fmt.Errorf("cannot identify %s: %w", isin, err))
		} else {
			found[isin] = sec
		}
		rows = append(rows, renderer.SecurityRow{ISIN: isin, Security: sec, Err: err})
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(found); err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(renderer.SecuritiesMarkdown(rows))
	}

	if errs != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
