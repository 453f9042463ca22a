// Package morphmarket fetches comparable listings from the MorphMarket search
// page, either with a plain HTTP request or through a headless browser.
package morphmarket

import (
	"fmt"
	"net/url"
	"time"

	"reptile-pricer/config"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

// New returns the ingestion collaborator selected by cfg.ScrapeMode.
func New(cfg *config.Config, logger *utils.Logger) services.ListingFetcher {
	if cfg.ScrapeMode == config.ScrapeModeBrowser {
		return NewBrowserScraper(cfg, logger)
	}
	return NewHTTPScraper(cfg, logger)
}

// SearchURL builds the search page URL for a morph query.
func SearchURL(base, query string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse marketplace url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func newRetry(cfg *config.Config, logger *utils.Logger) *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		Logger:      logger,
	}
}

// preview returns the first max characters of s.
func preview(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
