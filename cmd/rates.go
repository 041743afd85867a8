package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/date"
	"github.com/etnz/refdata/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	from   string
	to     string
	period string
	json   bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "display daily EUR exchange rates" }
func (*ratesCmd) Usage() string {
	return `refdata rates [-from <date>] [-to <date>] [-period <period>] [-json] <currency>...

  Fetches the ECB daily reference rates of each currency against EUR, over the
  period containing -to, or from -from to -to.
  GBX is accepted, its rates are the GBP ones multiplied by 100.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "The start date of a custom range. Overrides -period.")
	f.StringVar(&c.to, "to", "0d", "The end date of the range (defaults to today).")
	f.StringVar(&c.period, "period", "month", "Predefined period (day, week, month, quarter, year).")
	f.BoolVar(&c.json, "json", false, "Print rates as JSON.")
}

// dateRange returns the requested range.
func (c *ratesCmd) dateRange() (date.Range, error) {
	to, err := date.Parse(c.to)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid -to: %w", err)
	}
	if c.from != "" {
		from, err := date.Parse(c.from)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -from: %w", err)
		}
		return date.Range{From: from, To: to}, nil
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid -period: %w", err)
	}
	r := date.NewRange(to, period)
	// the future has no rates.
	r.To = to
	return r, nil
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "at least one currency is required")
		return subcommands.ExitUsageError
	}
	var codes []refdata.CurrencyCode
	for _, arg := range f.Args() {
		code, err := refdata.ParseCurrencyCode(arg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitUsageError
		}
		if code == refdata.EUR {
			fmt.Fprintln(stderr, "EUR is the reference currency, it has no rate")
			return subcommands.ExitUsageError
		}
		codes = append(codes, code)
	}
	r, err := c.dateRange()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}

	cfg, log, closer, err := setup()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	defer closer.Close()
	cache := NewECB(cfg, log)

	var errs error
	var series []*renderer.Rates
	for _, code := range codes {
		if err := cache.CacheExchangeRates(ctx, r.From, r.To, code); err != nil {
			log.Error().Err(err).Str("currency", string(code)).Msg("cannot fetch exchange rates")
			errs = errors.Join(errs, fmt.Errorf("cannot fetch %s rates: %w", code, err))
			continue
		}
		series = append(series, renderer.NewRates(code, r, cache.History(code)))
	}

	if c.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(series); err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitFailure
		}
	} else if len(series) > 0 {
		var b strings.Builder
		for _, s := range series {
			b.WriteString(renderer.RenderRates(s))
			b.WriteString("\n")
		}
		printMarkdown(b.String())
	}

	if errs != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
