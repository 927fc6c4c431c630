package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

var (
	// ErrInvalidURL is returned for URLs rejected before any network activity.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrFetchFailed is returned when the page could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnableToAnalyze wraps every failure of the analysis pipeline.
	ErrUnableToAnalyze = errors.New("unable to analyze")
)

const (
	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 15 * time.Second

	userAgent   = "SEOAnalyzer/1.0"
	maxBodySize = 10 * 1024 * 1024
)

// ValidateURL checks that raw is an absolute http or https URL.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported protocol %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u, nil
}

// Fetcher retrieves page HTML with a single GET request. It never retries.
type Fetcher struct {
	client *http.Client
	relay  string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the overall timeout of a fetch.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithRelay routes requests through a cross-origin relay. The escaped
// target URL is appended to prefix, e.g. "https://relay.example/raw?url=".
func WithRelay(prefix string) FetcherOption {
	return func(f *Fetcher) {
		f.relay = prefix
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a Fetcher backed by a pooled keep-alive transport.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:   DefaultFetchTimeout,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// requestURL returns the URL actually requested for target.
func (f *Fetcher) requestURL(target string) string {
	if f.relay == "" {
		return target
	}
	return f.relay + url.QueryEscape(target)
}

// Fetch returns the decoded HTML of target.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.requestURL(target), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: HTTP %d for %s", ErrFetchFailed, resp.StatusCode, target)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrFetchFailed, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	return string(data), nil
}
