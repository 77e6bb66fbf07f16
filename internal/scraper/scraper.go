package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/Ad4rshS/am-zone/internal/models"
)

// Interstitial pages ("continue shopping" walls) carry this marker instead of
// product markup. When hit, the mobile site is tried once using the product
// identifier from the URL.
var (
	interstitialMarker = regexp.MustCompile(`(?i)Continue shopping`)
	productIDPattern   = regexp.MustCompile(`(?i)/dp/([A-Z0-9]{8,})`)
)

var mobileURLTemplate = "https://www.amazon.in/gp/aw/d/%s"

// Service runs the full extraction pipeline: fetch, interstitial fallback,
// parse, assemble. It holds no per-request state, so concurrent calls are
// independent.
type Service struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

func NewService(fetcher *Fetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger.With("component", "scraper"),
	}
}

// FetchProduct fetches sourceURL and extracts a product record from it.
// Extractor misses degrade to empty fields; only fetch or parse failure is an
// error.
func (s *Service) FetchProduct(ctx context.Context, sourceURL string) (*models.ExtractedProduct, error) {
	html, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		if html == "" {
			return nil, fmt.Errorf("failed to fetch product page: %w", err)
		}
		// Error pages are often still HTML worth parsing.
		s.logger.Warn("fetch returned an error status, parsing body anyway",
			"url", sourceURL, "error", err)
	}

	if mobileURL, ok := s.mobileFallbackURL(html, sourceURL); ok {
		s.logger.Info("interstitial detected, retrying via mobile site",
			"url", sourceURL, "mobile_url", mobileURL)
		html, err = s.fetcher.Fetch(ctx, mobileURL)
		if err != nil && html == "" {
			return nil, fmt.Errorf("mobile fallback fetch failed: %w", err)
		}
	}

	product, err := ExtractFromHTML(html, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product page: %w", err)
	}

	return product, nil
}

// mobileFallbackURL reports whether html is an interstitial and, if the
// original URL carries an extractable product identifier, the mobile URL to
// retry with. At most one retry ever happens.
func (s *Service) mobileFallbackURL(html, sourceURL string) (string, bool) {
	if !interstitialMarker.MatchString(html) {
		return "", false
	}
	m := productIDPattern.FindStringSubmatch(sourceURL)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf(mobileURLTemplate, m[1]), true
}
