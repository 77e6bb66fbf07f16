package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Browser-like headers so marketplace sites serve the real page instead of
// rejecting the request outright.
var defaultHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123 Safari/537.36",
	"Accept-Language":           "en-IN,en;q=0.9",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher issues single-attempt HTTP GETs and returns HTML as UTF-8 text.
// Redirects are followed transparently; there is no retry or backoff here.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with the given total request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs a GET on url. On a non-success status the body is still
// returned alongside the error: error pages are sometimes HTML worth
// re-parsing, so the caller decides whether to use it.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	html, err := toUTF8(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return html, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode)
	}

	return html, nil
}

// toUTF8 converts the body to UTF-8 using the Content-Type header and body
// sniffing, matching how goquery expects its input.
func toUTF8(body []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return string(body), nil
	}

	reader := enc.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", fmt.Errorf("failed to convert body to UTF-8: %w", err)
	}
	return buf.String(), nil
}
