package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"reptile-pricer/models"
)

// Estimate narrows listings down to those labelled with the single morph
// closest to target and returns them with their median price. ok is false
// when no label is similar enough, including when listings is empty.
func Estimate(target string, listings []models.RawListing) (subset []models.RawListing, median decimal.Decimal, ok bool) {
	label, found := MatchMorph(target, distinctMorphs(listings))
	if !found {
		return nil, decimal.Zero, false
	}

	for _, l := range listings {
		if l.Morph == label {
			subset = append(subset, l)
		}
	}

	prices := make([]int64, len(subset))
	for i, l := range subset {
		prices[i] = l.Price
	}
	return subset, Median(prices), true
}

// Median returns the middle price, or the mean of the two middle prices when
// the count is even. An empty slice has a median of zero.
func Median(prices []int64) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}

	sorted := append([]int64(nil), prices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return decimal.NewFromInt(sorted[mid])
	}
	sum := decimal.NewFromInt(sorted[mid-1]).Add(decimal.NewFromInt(sorted[mid]))
	return sum.Div(decimal.NewFromInt(2))
}

// distinctMorphs returns each morph label once, in first-seen order.
func distinctMorphs(listings []models.RawListing) []string {
	seen := make(map[string]struct{}, len(listings))
	labels := make([]string, 0, len(listings))
	for _, l := range listings {
		if _, dup := seen[l.Morph]; dup {
			continue
		}
		seen[l.Morph] = struct{}{}
		labels = append(labels, l.Morph)
	}
	return labels
}
