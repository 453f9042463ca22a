package morphmarket

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html"

	"reptile-pricer/config"
	"reptile-pricer/models"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

// HTTPScraper downloads the static search page and reads every price element.
type HTTPScraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *http.Client
	cleaner *services.Cleaner
	retry   *utils.RetryConfig
}

// NewHTTPScraper creates an HTTPScraper.
func NewHTTPScraper(cfg *config.Config, logger *utils.Logger) *HTTPScraper {
	return &HTTPScraper{
		cfg:     cfg,
		logger:  logger,
		client:  &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		cleaner: services.NewCleaner(logger),
		retry:   newRetry(cfg, logger),
	}
}

// FetchListings returns the listings on the search page for morphQuery, or
// nothing if the page could not be fetched or parsed.
func (s *HTTPScraper) FetchListings(ctx context.Context, morphQuery string) []models.RawListing {
	var cards []models.ScrapedCard
	err := s.retry.Do(ctx, "morphmarket-http", func(ctx context.Context) error {
		found, err := s.fetchCards(ctx, morphQuery)
		if err != nil {
			return err
		}
		cards = found
		return nil
	})
	if err != nil {
		s.logger.Error("[morphmarket] Fetch failed for %q: %v", morphQuery, err)
		return nil
	}

	s.logger.Info("[morphmarket] Found %d price cards for %q", len(cards), morphQuery)
	return s.cleaner.Clean(morphQuery, cards)
}

func (s *HTTPScraper) fetchCards(ctx context.Context, morphQuery string) ([]models.ScrapedCard, error) {
	pageURL, err := SearchURL(s.cfg.MarketplaceURL, morphQuery)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	s.logger.Info("[morphmarket] Status code: %d", resp.StatusCode)

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[morphmarket] Page preview: %s", preview(string(body), 1000))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return priceCards(doc), nil
}

// priceCards collects the text of every div carrying the "price" class.
func priceCards(doc *html.Node) []models.ScrapedCard {
	var cards []models.ScrapedCard
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "price") {
			cards = append(cards, models.ScrapedCard{PriceText: strippedText(n)})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return cards
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// strippedText joins the trimmed text of every text node under n.
func strippedText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// readBody decodes the response according to its Content-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	enc := strings.ToLower(resp.Header.Get("Content-Encoding"))
	switch {
	case strings.Contains(enc, "br"):
		return io.ReadAll(brotli.NewReader(resp.Body))
	case strings.Contains(enc, "zstd"):
		r, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.Contains(enc, "gzip"):
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.Contains(enc, "deflate"):
		r, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("deflate reader: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return io.ReadAll(resp.Body)
	}
}
