package services

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"reptile-pricer/models"
)

// NoMatchRationale is returned when the market has nothing comparable.
const NoMatchRationale = "No similar morphs found. Suggest manual pricing."

// MaxAmount is the largest dollar amount accepted as a listing price or a
// cost. Front ends and ingestion reject anything larger.
const MaxAmount int64 = 1_000_000_000_000

// maxPrice is the largest int64 ending in 9. Computed prices above it
// saturate to it.
const maxPrice int64 = math.MaxInt64/10*10 - 1

var (
	// marginRate is the minimum markup over cost.
	marginRate = decimal.New(12, -1)

	petMultiplier     = decimal.New(95, -2)
	breederMultiplier = decimal.New(105, -2)
	highEndMultiplier = decimal.New(115, -2)
	defaultMultiplier = decimal.NewFromInt(1)
)

// Multiplier returns the price adjustment for a quality tier. Unknown tiers
// are priced at the market median.
func Multiplier(q models.Quality) decimal.Decimal {
	switch q {
	case models.QualityPet:
		return petMultiplier
	case models.QualityBreeder:
		return breederMultiplier
	case models.QualityHighEnd:
		return highEndMultiplier
	default:
		return defaultMultiplier
	}
}

// MarginFloor is the lowest acceptable price for an animal bought at cost.
func MarginFloor(cost int64) int64 {
	return toPrice(decimal.NewFromInt(cost).Mul(marginRate))
}

// toPrice rounds d to whole dollars, clamped to [0, maxPrice].
func toPrice(d decimal.Decimal) int64 {
	// decimal.Round rounds half away from zero.
	r := d.Round(0)
	if r.GreaterThan(decimal.NewFromInt(maxPrice)) {
		return maxPrice
	}
	if r.IsNegative() {
		return 0
	}
	return r.IntPart()
}

// EndInNine replaces the last digit of price with 9. It applies to every
// price, so 3 becomes 9 and 129 stays 129.
func EndInNine(price int64) int64 {
	return price/10*10 + 9
}

// Decide suggests a listing price for animal from the comparable listings.
// It never fails; a missing price is reported through the suggestion.
func Decide(animal models.TargetAnimal, listings []models.RawListing) models.PriceSuggestion {
	subset, median, ok := Estimate(animal.Morph, listings)
	return DecideFromEstimate(animal, subset, median, ok)
}

// DecideFromEstimate prices animal from an Estimate result already computed
// for animal.Morph.
func DecideFromEstimate(animal models.TargetAnimal, subset []models.RawListing, median decimal.Decimal, ok bool) models.PriceSuggestion {
	if !ok {
		return models.PriceSuggestion{Rationale: NoMatchRationale}
	}

	multiplier := Multiplier(animal.Quality)

	price := toPrice(median.Mul(multiplier))
	if floor := MarginFloor(animal.Cost); price < floor {
		price = floor
	}
	price = EndInNine(price)

	return models.PriceSuggestion{
		Price: &price,
		Rationale: fmt.Sprintf("Based on %d similar listings. Median: $%s. Quality multiplier: %s.",
			len(subset), median.String(), formatMultiplier(multiplier)),
	}
}

// formatMultiplier keeps one decimal place on whole multipliers ("1.0").
func formatMultiplier(m decimal.Decimal) string {
	if m.IsInteger() {
		return m.StringFixed(1)
	}
	return m.String()
}
