package morphmarket

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"reptile-pricer/config"
	"reptile-pricer/models"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

// extractCardsJS returns the text of every price element on the page.
const extractCardsJS = `
	Array.from(document.querySelectorAll('div.price'))
		.map(function(el) { return (el.innerText || '').trim(); })
`

// BrowserScraper renders the search page in headless Chrome, which sees
// listings the static page only loads with JavaScript. A browser is started
// and torn down for every request.
type BrowserScraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	cleaner *services.Cleaner
	retry   *utils.RetryConfig
}

// NewBrowserScraper creates a BrowserScraper.
func NewBrowserScraper(cfg *config.Config, logger *utils.Logger) *BrowserScraper {
	return &BrowserScraper{
		cfg:     cfg,
		logger:  logger,
		cleaner: services.NewCleaner(logger),
		retry:   newRetry(cfg, logger),
	}
}

// FetchListings returns the listings rendered for morphQuery, or nothing if
// the browser could not load the page.
func (s *BrowserScraper) FetchListings(ctx context.Context, morphQuery string) []models.RawListing {
	pageURL, err := SearchURL(s.cfg.MarketplaceURL, morphQuery)
	if err != nil {
		s.logger.Error("[morphmarket] %v", err)
		return nil
	}

	chromeBin := s.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Debug("[morphmarket] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(s.cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var cards []models.ScrapedCard
	err = s.retry.Do(browserCtx, "morphmarket-browser", func(ctx context.Context) error {
		found, err := s.scrapePage(ctx, pageURL)
		if err != nil {
			return err
		}
		cards = found
		return nil
	})
	if err != nil {
		s.logger.Error("[morphmarket] Browser fetch failed for %q: %v", morphQuery, err)
		return nil
	}

	s.logger.Info("[morphmarket] Found %d price cards for %q", len(cards), morphQuery)
	return s.cleaner.Clean(morphQuery, cards)
}

// scrapePage loads the search page in a fresh tab and extracts price cards.
func (s *BrowserScraper) scrapePage(browserCtx context.Context, pageURL string) ([]models.ScrapedCard, error) {
	ctx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeoutSec)*time.Second)
	defer cancelTimeout()

	var found []string

	err := chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(3*time.Second),

		// Scroll so lazily loaded cards render
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),

		chromedp.Evaluate(extractCardsJS, &found),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp page scrape: %w", err)
	}

	cards := make([]models.ScrapedCard, 0, len(found))
	for _, text := range found {
		cards = append(cards, models.ScrapedCard{PriceText: text})
	}
	return cards, nil
}

// findChromeBinary locates a Chrome/Chromium binary, or returns "" to let
// chromedp use its own lookup.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
