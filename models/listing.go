package models

import "github.com/shopspring/decimal"

// Quality is the market positioning tier of an individual animal.
type Quality string

const (
	QualityPet     Quality = "pet"
	QualityBreeder Quality = "breeder"
	QualityHighEnd Quality = "high-end"
)

// Qualities lists the tiers a front end offers, in display order.
var Qualities = []Quality{QualityPet, QualityBreeder, QualityHighEnd}

// ParseQuality reports whether s names one of the known tiers.
func ParseQuality(s string) (Quality, bool) {
	for _, q := range Qualities {
		if string(q) == s {
			return q, true
		}
	}
	return Quality(s), false
}

// ScrapedCard is a single price card as it appears on the marketplace page,
// before the price text has been parsed.
type ScrapedCard struct {
	PriceText string
}

// RawListing is one comparable marketplace listing. Listings with price text
// that could not be parsed are never constructed.
type RawListing struct {
	Morph   string
	Price   int64
	Quality string
}

// TargetAnimal is the animal being priced.
type TargetAnimal struct {
	Morph   string
	Quality Quality
	Cost    int64
}

// PriceSuggestion is the outcome of one pricing request. Price is nil exactly
// when no similar listings were found.
type PriceSuggestion struct {
	Price     *int64
	Rationale string
}

// HasPrice reports whether a price could be computed.
func (p PriceSuggestion) HasPrice() bool {
	return p.Price != nil
}

// MarketSummary describes the comparables a suggestion was based on.
type MarketSummary struct {
	MatchedMorph string
	Comparables  int
	Scraped      int
	MinPrice     int64
	MaxPrice     int64
	Median       decimal.Decimal
}
