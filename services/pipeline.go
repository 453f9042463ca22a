package services

import (
	"context"

	"github.com/google/uuid"

	"reptile-pricer/models"
	"reptile-pricer/utils"
)

// ListingFetcher is the ingestion collaborator. Implementations never fail:
// network, timeout and parse errors all produce an empty result.
type ListingFetcher interface {
	FetchListings(ctx context.Context, morphQuery string) []models.RawListing
}

// Result is everything a front end needs to show for one pricing request.
type Result struct {
	RequestID  string
	Animal     models.TargetAnimal
	Suggestion models.PriceSuggestion
	// Summary is nil when no similar morph was found.
	Summary *models.MarketSummary
}

// Pipeline runs one pricing request end to end: fetch, decide, summarise.
type Pipeline struct {
	fetcher  ListingFetcher
	insights *InsightService
	logger   *utils.Logger
}

// NewPipeline creates a Pipeline on top of fetcher.
func NewPipeline(fetcher ListingFetcher, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		insights: NewInsightService(logger),
		logger:   logger,
	}
}

// Suggest fetches current listings for animal's morph and prices the animal
// against them.
func (p *Pipeline) Suggest(ctx context.Context, animal models.TargetAnimal) Result {
	id := uuid.NewString()
	log := p.logger.With(id[:8])

	log.Info("[pipeline] Pricing %q (quality: %s, cost: $%d)", animal.Morph, animal.Quality, animal.Cost)

	listings := p.fetcher.FetchListings(ctx, animal.Morph)
	log.Debug("[pipeline] Scraped listings: %+v", listings)

	subset, median, ok := Estimate(animal.Morph, listings)
	suggestion := DecideFromEstimate(animal, subset, median, ok)
	if suggestion.HasPrice() {
		log.Info("[pipeline] Suggested $%d from %d scraped listings", *suggestion.Price, len(listings))
	} else {
		log.Warn("[pipeline] No suggestion from %d scraped listings", len(listings))
	}

	return Result{
		RequestID:  id,
		Animal:     animal,
		Suggestion: suggestion,
		Summary:    p.insights.Summarize(subset, median, len(listings)),
	}
}
