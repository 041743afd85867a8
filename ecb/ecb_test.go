package ecb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/etnz/refdata"
	"github.com/etnz/refdata/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series builds an ECB dataonly response for currency, one observation per day.
//
// A nil rate lists the day without an observation.
func series(currency string, days []string, rates []any) map[string]any {
	values := make([]any, len(days))
	observations := make(map[string]any)
	for i, day := range days {
		values[i] = map[string]any{"id": day, "name": day}
		if rates[i] != nil {
			observations[fmt.Sprintf("0:0:0:0:0:%d", i)] = []any{rates[i]}
		}
	}
	single := func(id, value string) map[string]any {
		return map[string]any{"id": id, "values": []any{map[string]any{"id": value}}}
	}
	return map[string]any{
		"dataSets": []any{map[string]any{"observations": observations}},
		"structure": map[string]any{
			"dimensions": map[string]any{
				"observation": []any{
					single("FREQ", "D"),
					single("CURRENCY", currency),
					single("CURRENCY_DENOM", "EUR"),
					single("EXR_TYPE", "SP00"),
					single("EXR_SUFFIX", "A"),
					map[string]any{"id": "TIME_PERIOD", "values": values},
				},
			},
		},
	}
}

// fakeECB serves the response registered for each series path and records requests.
type fakeECB struct {
	mu        sync.Mutex
	responses map[string]any // by path
	requests  []*url.URL
}

func (f *fakeECB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL)
	resp, ok := f.responses[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.Error(w, "No results found.", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeECB) set(path string, resp any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[path] = resp
}

func (f *fakeECB) last() *url.URL {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

// newTestCache returns a Cache reaching a fake ECB over https.
func newTestCache(t *testing.T) (*Cache, *fakeECB) {
	t.Helper()
	fake := &fakeECB{responses: make(map[string]any)}
	srv := httptest.NewTLSServer(fake)
	t.Cleanup(srv.Close)

	cfg := refdata.DefaultConfig()
	cfg.ECBHostname = srv.Listener.Addr().String()
	return New(cfg, WithHTTPClient(srv.Client())), fake
}

func TestCacheExchangeRates(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD",
		[]string{"2024-01-02", "2024-01-03", "2024-01-04"},
		[]any{1.0956, 1.0919, 1.0953},
	))

	ctx := context.Background()
	start, end := date.New(2024, 1, 2), date.New(2024, 1, 4)
	require.NoError(t, c.CacheExchangeRates(ctx, start, end, refdata.USD))

	assert.Equal(t, ExchangeRatesMap{
		refdata.USD: {"2024-01-02": 1.0956, "2024-01-03": 1.0919, "2024-01-04": 1.0953},
	}, c.Rates())

	q := fake.last().Query()
	assert.Equal(t, "2024-01-02", q.Get("startPeriod"))
	assert.Equal(t, "2024-01-04", q.Get("endPeriod"))
	assert.Equal(t, "jsondata", q.Get("format"))
	assert.Equal(t, "dataonly", q.Get("detail"))
	assert.Equal(t, "AllDimensions", q.Get("dimensionAtObservation"))
}

func TestCacheExchangeRates_DateFormat(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", nil, nil))

	tests := []struct {
		start, end date.Date
		want       [2]string
	}{
		{date.New(2024, 1, 5), date.New(2024, 11, 23), [2]string{"2024-01-05", "2024-11-23"}},
		{date.New(2023, 12, 31), date.New(2024, 1, 1), [2]string{"2023-12-31", "2024-01-01"}},
	}
	for _, test := range tests {
		require.NoError(t, c.CacheExchangeRates(context.Background(), test.start, test.end, refdata.USD))
		q := fake.last().Query()
		assert.Equal(t, test.want[0], q.Get("startPeriod"))
		assert.Equal(t, test.want[1], q.Get("endPeriod"))
	}
}

func TestCacheExchangeRates_Overwrite(t *testing.T) {
	c, fake := newTestCache(t)
	path := "/service/data/EXR/D.JPY.EUR.SP00.A"
	ctx := context.Background()
	day := date.New(2024, 3, 1)

	fake.set(path, series("JPY", []string{"2024-03-01"}, []any{162.5}))
	require.NoError(t, c.CacheExchangeRates(ctx, day, day, refdata.JPY))

	fake.set(path, series("JPY", []string{"2024-03-01", "2024-03-04"}, []any{162.8, 163.1}))
	require.NoError(t, c.CacheExchangeRates(ctx, day, day.Add(3), refdata.JPY))

	assert.Equal(t, map[string]float64{"2024-03-01": 162.8, "2024-03-04": 163.1}, c.Rates()[refdata.JPY])
	assert.Equal(t, 2, c.History(refdata.JPY).Len())
}

func TestCacheExchangeRates_GBX(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.GBP.EUR.SP00.A", series("GBP",
		[]string{"2024-01-02", "2024-01-03"},
		[]any{0.8582, 0.8601},
	))

	day := date.New(2024, 1, 2)
	require.NoError(t, c.CacheExchangeRates(context.Background(), day, day.Add(1), refdata.GBX))

	assert.Equal(t, "/service/data/EXR/D.GBP.EUR.SP00.A", fake.last().Path)
	rates := c.Rates()
	assert.Equal(t, map[string]float64{"2024-01-02": 85.82, "2024-01-03": 86.01}, rates[refdata.GBX])
	assert.NotContains(t, rates, refdata.GBP)
}

func TestCacheExchangeRates_MissingObservations(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.CHF.EUR.SP00.A", series("CHF",
		[]string{"2024-05-01", "2024-05-02"},
		[]any{nil, 0.9771},
	))

	day := date.New(2024, 5, 1)
	require.NoError(t, c.CacheExchangeRates(context.Background(), day, day.Add(1), refdata.CHF))

	_, ok := c.Rate(refdata.CHF, day)
	assert.False(t, ok)
	rate, ok := c.Rate(refdata.CHF, day.Add(1))
	assert.True(t, ok)
	assert.Equal(t, 0.9771, rate)
}

func TestCacheExchangeRates_Errors(t *testing.T) {
	c, fake := newTestCache(t)
	noTime := series("USD", []string{"2024-01-02"}, []any{1.09})
	dims := noTime["structure"].(map[string]any)["dimensions"].(map[string]any)
	dims["observation"] = dims["observation"].([]any)[:5]
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", noTime)
	fake.set("/service/data/EXR/D.CAD.EUR.SP00.A", series("CAD", []string{"2024-01-02"}, []any{"1.46"}))

	ctx := context.Background()
	start, end := date.New(2024, 1, 2), date.New(2024, 1, 3)

	err := c.CacheExchangeRates(ctx, start, end, refdata.USD)
	var shape *refdata.ShapeError
	require.True(t, errors.As(err, &shape), "got %v", err)
	assert.Equal(t, "USD 2024-01-02..2024-01-03", shape.Key)
	assert.Contains(t, err.Error(), "time periods")

	err = c.CacheExchangeRates(ctx, start, end, refdata.CAD)
	assert.ErrorIs(t, err, refdata.ErrShape)

	// no response registered for NOK
	err = c.CacheExchangeRates(ctx, start, end, refdata.NOK)
	var transport *refdata.TransportError
	require.True(t, errors.As(err, &transport), "got %v", err)
	assert.Equal(t, http.StatusNotFound, transport.Status)
	assert.Equal(t, "NOK 2024-01-02..2024-01-03", transport.Key)

	assert.Empty(t, c.Rates())
}

func TestCacheExchangeRates_Canceled(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.CacheExchangeRates(ctx, date.New(2024, 1, 2), date.New(2024, 1, 3), refdata.USD)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetHostname(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", []string{"2024-01-02"}, []any{1.09}))
	day := date.New(2024, 1, 2)

	host := c.Hostname()
	c.SetHostname("127.0.0.1:1")
	assert.Error(t, c.CacheExchangeRates(context.Background(), day, day, refdata.USD))

	c.SetHostname(host)
	assert.NoError(t, c.CacheExchangeRates(context.Background(), day, day, refdata.USD))
}

func TestRateAsOf(t *testing.T) {
	c, fake := newTestCache(t)
	// 2024-01-06 and 2024-01-07 are a weekend.
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD",
		[]string{"2024-01-04", "2024-01-05", "2024-01-08"},
		[]any{1.0953, 1.0921, 1.0946},
	))
	require.NoError(t, c.CacheExchangeRates(context.Background(), date.New(2024, 1, 4), date.New(2024, 1, 8), refdata.USD))

	tests := []struct {
		day    date.Date
		want   float64
		wantOK bool
	}{
		{date.New(2024, 1, 3), 0, false},
		{date.New(2024, 1, 5), 1.0921, true},
		{date.New(2024, 1, 7), 1.0921, true},
		{date.New(2024, 1, 9), 1.0946, true},
	}
	for _, test := range tests {
		got, ok := c.RateAsOf(refdata.USD, test.day)
		assert.Equal(t, test.wantOK, ok, "RateAsOf(%s)", test.day)
		assert.Equal(t, test.want, got, "RateAsOf(%s)", test.day)
	}

	_, ok := c.RateAsOf(refdata.SEK, date.New(2024, 1, 5))
	assert.False(t, ok)
}

func TestConvert(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", []string{"2024-01-05"}, []any{1.0921}))
	day := date.New(2024, 1, 5)
	require.NoError(t, c.CacheExchangeRates(context.Background(), day, day, refdata.USD))

	got, err := c.Convert(decimal.NewFromInt(100), refdata.USD, day.Add(2))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("109.21").Equal(got), "got %s", got)

	got, err = c.Convert(decimal.NewFromInt(100), refdata.EUR, day)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got))

	_, err = c.Convert(decimal.NewFromInt(100), refdata.USD, day.Add(-1))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", []string{"2024-01-05"}, []any{1.0921}))
	day := date.New(2024, 1, 5)
	require.NoError(t, c.CacheExchangeRates(context.Background(), day, day, refdata.USD))
	require.NotEmpty(t, c.Rates())

	c.Clear()
	assert.Empty(t, c.Rates())
	assert.Equal(t, 0, c.History(refdata.USD).Len())
}

func TestHistory_IsACopy(t *testing.T) {
	c, fake := newTestCache(t)
	fake.set("/service/data/EXR/D.USD.EUR.SP00.A", series("USD", []string{"2024-01-05"}, []any{1.0921}))
	day := date.New(2024, 1, 5)
	require.NoError(t, c.CacheExchangeRates(context.Background(), day, day, refdata.USD))

	h := c.History(refdata.USD)
	h.Append(day, 2)
	rate, _ := c.Rate(refdata.USD, day)
	assert.Equal(t, 1.0921, rate)
}
