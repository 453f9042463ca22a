package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"reptile-pricer/models"
	"reptile-pricer/utils"
)

// UnknownQuality tags listings whose quality the marketplace does not show.
const UnknownQuality = "unknown"

// priceRegexp captures the first whole-dollar amount, e.g. "$250" in "$250.00 OBO".
var priceRegexp = regexp.MustCompile(`\$(\d+)`)

// Cleaner turns scraped price cards into RawListings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts cards into listings, dropping any card without a parsable
// price. Every listing is labelled with the normalised query, so all of them
// match a target equal to query.
func (c *Cleaner) Clean(query string, cards []models.ScrapedCard) []models.RawListing {
	result := make([]models.RawListing, 0, len(cards))
	morph := normaliseText(query)

	for _, card := range cards {
		price, ok := ParsePrice(card.PriceText)
		if !ok {
			c.logger.Debug("[cleaner] Dropping card with unparsable price %q", card.PriceText)
			continue
		}

		result = append(result, models.RawListing{
			Morph:   morph,
			Price:   price,
			Quality: UnknownQuality,
		})
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(cards), len(result), len(cards)-len(result))
	return result
}

// ParsePrice extracts the first "$" followed by digits. Thousands separators
// and cents are not part of the amount: "$1,200" parses as 1. Amounts above
// MaxAmount are rejected.
func ParsePrice(text string) (int64, bool) {
	match := priceRegexp.FindStringSubmatch(text)
	if len(match) < 2 {
		return 0, false
	}
	price, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || price > MaxAmount {
		return 0, false
	}
	return price, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
