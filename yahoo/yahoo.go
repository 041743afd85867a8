// Package yahoo identifies securities by ISIN using Yahoo Finance, and caches them.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/refdata"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Quote types returned by the search API.
const (
	quoteTypeEquity     = "EQUITY"
	quoteTypeMutualFund = "MUTUALFUND"
	quoteTypeETF        = "ETF"
)

// distributionYieldPatterns are the quote page snippets of a fund that does not distribute.
var distributionYieldPatterns = []string{
	`data-test="TD_YIELD-value">0.00%</td`,
	`data-test="TD_YIELD-value">N/A</td`,
}

// Cache resolves ISINs into securities and remembers them for the lifetime of the Cache.
//
// A cached security is never fetched again. Failed lookups are not cached.
// Concurrent lookups of the same ISIN share a single fetch.
type Cache struct {
	client *http.Client
	log    zerolog.Logger
	flight singleflight.Group

	mu             sync.RWMutex
	searchHostname string
	quoteHostname  string
	securities     map[string]refdata.Security
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient sets the http client used to reach Yahoo Finance.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New returns an empty Cache using the Yahoo hostnames of cfg.
func New(cfg refdata.Config, opts ...Option) *Cache {
	c := &Cache{
		log:            zerolog.Nop(),
		searchHostname: cfg.YahooQuery1Hostname,
		quoteHostname:  cfg.YahooHostname,
		securities:     make(map[string]refdata.Security),
	}
	if c.searchHostname == "" {
		c.searchHostname = refdata.DefaultYahooQuery1Hostname
	}
	if c.quoteHostname == "" {
		c.quoteHostname = refdata.DefaultYahooHostname
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = refdata.NewClient(c.log)
	}
	c.log = c.log.With().Str("provider", "yahoo").Logger()
	return c
}

// SetSearchHostname changes the hostname of the search API.
func (c *Cache) SetSearchHostname(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchHostname = hostname
}

// SetQuoteHostname changes the hostname of the quote pages.
func (c *Cache) SetQuoteHostname(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quoteHostname = hostname
}

func (c *Cache) hostnames() (search, quote string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchHostname, c.quoteHostname
}

// Cached returns the security cached for isin, without any network access.
func (c *Cache) Cached(isin string) (refdata.Security, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sec, ok := c.securities[isin]
	return sec, ok
}

// Len returns the number of cached securities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.securities)
}

// Security returns the security identified by isin.
//
// The isin is not validated, it is passed as is to the search API. Concurrent
// lookups of the same isin share one fetch, which is not canceled by any
// caller: each caller only stops waiting when its own ctx is done.
func (c *Cache) Security(ctx context.Context, isin string) (refdata.Security, error) {
	if sec, ok := c.Cached(isin); ok {
		return sec, nil
	}
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(isin, func() (any, error) {
		// a previous flight may have completed in between.
		if sec, ok := c.Cached(isin); ok {
			return sec, nil
		}
		sec, err := c.lookup(flightCtx, isin)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.securities[isin] = sec
		c.mu.Unlock()
		c.log.Debug().Str("isin", isin).Stringer("security", sec).Msg("cached security")
		return sec, nil
	})
	select {
	case <-ctx.Done():
		return refdata.Security{}, fmt.Errorf("looking up %q: %w", isin, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return refdata.Security{}, res.Err
		}
		return res.Val.(refdata.Security), nil
	}
}

// lookup searches isin and builds the matching Security.
func (c *Cache) lookup(ctx context.Context, isin string) (refdata.Security, error) {
	searchHost, quoteHost := c.hostnames()

	params := url.Values{}
	params.Set("q", isin)
	params.Set("quotesCount", "1")
	params.Set("newsCount", "0")
	addr := fmt.Sprintf("https://%s/v1/finance/search?%s", searchHost, params.Encode())

	data, err := refdata.GetJSON(ctx, c.client, addr, isin)
	if err != nil {
		return refdata.Security{}, err
	}
	jquotes, err := jsonpath.Get("$.quotes", data)
	if err != nil {
		return refdata.Security{}, &refdata.ShapeError{Key: isin, Reason: "missing quotes", Body: data}
	}
	quotes, ok := jquotes.([]any)
	if !ok {
		return refdata.Security{}, &refdata.ShapeError{Key: isin, Reason: "quotes is not a list", Body: data}
	}
	if len(quotes) != 1 {
		return refdata.Security{}, &refdata.NotFoundError{ISIN: isin, Count: len(quotes), Body: data}
	}
	quote, ok := quotes[0].(map[string]any)
	if !ok {
		return refdata.Security{}, &refdata.ShapeError{Key: isin, Reason: "quote is not an object", Body: data}
	}

	quoteType := getString(quote, "quoteType")
	name := getString(quote, "longname")
	if name == "" {
		name = getString(quote, "shortname")
	}
	symbol := getString(quote, "symbol")

	switch quoteType {
	case quoteTypeEquity:
		return refdata.NewStock(name), nil
	case quoteTypeMutualFund, quoteTypeETF:
		accumulating, err := c.accumulating(ctx, quoteHost, symbol)
		if err != nil {
			return refdata.Security{}, err
		}
		return refdata.NewETF(name, accumulating), nil
	default:
		return refdata.Security{}, &refdata.UnknownQuoteTypeError{QuoteType: quoteType}
	}
}

// accumulating reports whether the fund behind symbol reinvests its income.
//
// It has no distribution yield on its quote page.
func (c *Cache) accumulating(ctx context.Context, host, symbol string) (bool, error) {
	addr := fmt.Sprintf("https://%s/quote/%s", host, url.PathEscape(symbol))
	html, err := refdata.GetText(ctx, c.client, addr, symbol)
	if err != nil {
		return false, err
	}
	for _, pattern := range distributionYieldPatterns {
		if strings.Contains(html, pattern) {
			return true, nil
		}
	}
	return false, nil
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
