// Package ecb caches daily euro foreign exchange reference rates published by the
// European Central Bank statistical data warehouse.
//
// See https://data.ecb.europa.eu/help/api/overview for the upstream API.
package ecb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ExchangeRatesMap maps a currency to its rates by day ("YYYY-MM-DD").
//
// A rate is the amount of that currency for 1 EUR on that day.
type ExchangeRatesMap map[refdata.CurrencyCode]map[string]float64

// Cache fetches exchange rates and keeps them for the lifetime of the Cache.
//
// Entries are never evicted, a later fetch of the same day overwrites the rate.
// A Cache is safe for concurrent use, but concurrent fetches of the same range
// are not coalesced: both hit the network and the last write wins.
type Cache struct {
	client *http.Client
	log    zerolog.Logger

	mu        sync.RWMutex
	hostname  string
	rates     ExchangeRatesMap
	histories map[refdata.CurrencyCode]*date.History[float64]
}

// Option configures a Cache.
type Option func(*Cache)

// WithHTTPClient sets the http client used to reach the ECB.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New returns an empty Cache reaching the ECB at cfg.ECBHostname.
func New(cfg refdata.Config, opts ...Option) *Cache {
	c := &Cache{
		log:       zerolog.Nop(),
		hostname:  cfg.ECBHostname,
		rates:     make(ExchangeRatesMap),
		histories: make(map[refdata.CurrencyCode]*date.History[float64]),
	}
	if c.hostname == "" {
		c.hostname = refdata.DefaultECBHostname
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = refdata.NewClient(c.log)
	}
	c.log = c.log.With().Str("provider", "ecb").Logger()
	return c
}

// SetHostname changes the hostname used by the next requests.
func (c *Cache) SetHostname(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostname = hostname
}

// Hostname returns the hostname currently in use.
func (c *Cache) Hostname() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hostname
}

// seriesURL returns the url of the daily EXR series of code against EUR.
func seriesURL(hostname string, code refdata.CurrencyCode, start, end date.Date) string {
	params := url.Values{}
	params.Set("startPeriod", start.String())
	params.Set("endPeriod", end.String())
	params.Set("format", "jsondata")
	params.Set("detail", "dataonly")
	params.Set("dimensionAtObservation", "AllDimensions")
	u := url.URL{
		Scheme:   "https",
		Host:     hostname,
		Path:     fmt.Sprintf("/service/data/EXR/D.%s.EUR.SP00.A", code),
		RawQuery: params.Encode(),
	}
	return u.String()
}

// CacheExchangeRates fetches the daily rates of code between start and end (included)
// and stores them.
//
// GBX has no series of its own: GBP is fetched instead and every rate is multiplied
// by 100 before being stored under GBX.
//
// start after end is not checked, the ECB answers such a request with an error
// status. On error, nothing is written.
func (c *Cache) CacheExchangeRates(ctx context.Context, start, end date.Date, code refdata.CurrencyCode) error {
	period := date.Range{From: start, To: end}
	key := fmt.Sprintf("%s %s", code, period)

	major, scale := code.Major()
	addr := seriesURL(c.Hostname(), major, start, end)

	data, err := refdata.GetJSON(ctx, c.client, addr, key)
	if err != nil {
		return err
	}
	observations, err := parseSeries(data, key)
	if err != nil {
		return err
	}

	if scale != 1 {
		factor := decimal.NewFromInt(scale)
		for i, o := range observations {
			observations[i].rate = decimal.NewFromFloat(o.rate).Mul(factor).InexactFloat64()
		}
	}

	c.store(code, observations)
	c.log.Debug().
		Str("currency", string(code)).
		Stringer("range", period).
		Int("rates", len(observations)).
		Msg("cached exchange rates")
	return nil
}

// store writes all observations under code at once.
func (c *Cache) store(code refdata.CurrencyCode, observations []observation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rates, ok := c.rates[code]
	if !ok {
		rates = make(map[string]float64, len(observations))
		c.rates[code] = rates
	}
	history, ok := c.histories[code]
	if !ok {
		history = new(date.History[float64])
		c.histories[code] = history
	}
	for _, o := range observations {
		rates[o.day.String()] = o.rate
		history.Append(o.day, o.rate)
	}
}

// Rate returns the rate of code on day, if it has been cached.
func (c *Cache) Rate(code refdata.CurrencyCode, day date.Date) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.rates[code][day.String()]
	return rate, ok
}

// RateAsOf returns the rate of code on day, or the latest cached one before day.
//
// There is no reference rate on weekends and TARGET holidays, the previous
// business day rate is the one in force.
func (c *Cache) RateAsOf(code refdata.CurrencyCode, day date.Date) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.histories[code]
	if !ok {
		return 0, false
	}
	return h.ValueAsOf(day)
}

// History returns a copy of the cached rates of code in chronological order.
func (c *Cache) History(code refdata.CurrencyCode) *date.History[float64] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := new(date.History[float64])
	if src, ok := c.histories[code]; ok {
		for day, rate := range src.Values() {
			h.Append(day, rate)
		}
	}
	return h
}

// Rates returns a copy of every cached rate.
func (c *Cache) Rates() ExchangeRatesMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := make(ExchangeRatesMap, len(c.rates))
	for code, rates := range c.rates {
		inner := make(map[string]float64, len(rates))
		for day, rate := range rates {
			inner[day] = rate
		}
		m[code] = inner
	}
	return m
}

// Clear forgets every cached rate.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates = make(ExchangeRatesMap)
	c.histories = make(map[refdata.CurrencyCode]*date.History[float64])
}

// Convert converts an amount in EUR into code, using the rate in force on day.
//
// Rates must have been cached first.
func (c *Cache) Convert(amount decimal.Decimal, code refdata.CurrencyCode, day date.Date) (decimal.Decimal, error) {
	if code == refdata.EUR {
		return amount, nil
	}
	rate, ok := c.RateAsOf(code, day)
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s exchange rate cached on or before %s", code, day)
	}
	return amount.Mul(decimal.NewFromFloat(rate)), nil
}
