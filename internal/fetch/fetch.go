// Package fetch provides the network primitive handed to providers: a
// security-hardened HTTP client reachable directly or through a proxy,
// plus input sanitization utilities.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent    = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"
	maxBodyBytes = 10 * 1024 * 1024
)

// Request describes one HTTP call. URL may be relative to BaseURL.
type Request struct {
	URL     string
	BaseURL string
	Method  string // defaults to GET
	Headers map[string]string
	Query   map[string]string
	Body    []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
}

// Fetcher performs HTTP requests on behalf of a provider.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// Client is the default Fetcher. A client built with NewProxied routes
// every request through a "simple proxy" endpoint.
type Client struct {
	http  *http.Client
	proxy string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewHTTPClient creates a hardened HTTP client with secure defaults.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// NewClient creates a direct Fetcher.
func NewClient(opts ...Option) *Client {
	c := &Client{http: NewHTTPClient()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewProxied creates a Fetcher that sends requests to proxyURL with the
// real target in the "destination" query parameter.
func NewProxied(proxyURL string, opts ...Option) (*Client, error) {
	if err := ValidateURL(proxyURL); err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	c := NewClient(opts...)
	c.proxy = proxyURL
	return c, nil
}

// Fetch performs the request and reads the body (up to 10MB).
func (c *Client) Fetch(ctx context.Context, r Request) (*Response, error) {
	target, err := resolve(r.BaseURL, r.URL, r.Query)
	if err != nil {
		return nil, err
	}
	if err := ValidateURL(target); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	endpoint := target
	if c.proxy != "" {
		endpoint = proxiedURL(c.proxy, target)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

func proxiedURL(proxy, target string) string {
	sep := "?"
	if strings.Contains(proxy, "?") {
		sep = "&"
	}
	return proxy + sep + "destination=" + url.QueryEscape(target)
}

// Text fetches a URL and returns the body as a string.
func Text(ctx context.Context, f Fetcher, r Request) (string, error) {
	resp, err := f.Fetch(ctx, r)
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// JSON fetches a URL and decodes the body into v.
func JSON(ctx context.Context, f Fetcher, r Request, v any) error {
	headers := map[string]string{"Accept": "application/json"}
	for k, v := range r.Headers {
		headers[k] = v
	}
	r.Headers = headers

	resp, err := f.Fetch(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("parsing JSON response: %w", err)
	}
	return nil
}

// Document fetches a URL and parses it into a goquery Document.
func Document(ctx context.Context, f Fetcher, r Request) (*goquery.Document, error) {
	resp, err := f.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
