package refdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// contains http utils to deal with remote services

// DefaultUserAgent is a browser-like user agent, some services reject the Go default one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	base http.RoundTripper
	log  zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.log.Debug().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Host+req.URL.Path).
			Msg("http request failed")
		return nil, err
	}
	t.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Host+req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("http request")
	return resp, nil
}

// NewClient returns an http.Client that logs its requests to log.
func NewClient(log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: &loggingTransport{base: http.DefaultTransport, log: log},
	}
}

// get performs an http GET and returns the body of a 200 response.
//
// Any other status is a TransportError for key.
func get(ctx context.Context, client *http.Client, addr, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create request for %s: %w", key, err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot http GET %v%v: %w", req.URL.Host, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so that the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Status: resp.StatusCode, Key: key}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read response body for %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// GetJSON performs an http GET and decodes the JSON body into a generic value
// (maps, slices, float64, string, bool, nil), ready to be probed with jsonpath.
//
// A non 200 status is a TransportError, a body that is not JSON is a ShapeError.
func GetJSON(ctx context.Context, client *http.Client, addr, key string) (any, error) {
	body, err := get(ctx, client, addr, key)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ShapeError{Key: key, Reason: fmt.Sprintf("invalid json: %v", err), Body: string(body)}
	}
	return data, nil
}

// GetText performs an http GET and returns the body as a string.
//
// A non 200 status is a TransportError.
func GetText(ctx context.Context, client *http.Client, addr, key string) (string, error) {
	body, err := get(ctx, client, addr, key)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
