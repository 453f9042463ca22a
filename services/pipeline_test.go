package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"reptile-pricer/models"
)

type stubFetcher struct {
	listings []models.RawListing
	queries  []string
}

func (f *stubFetcher) FetchListings(_ context.Context, morphQuery string) []models.RawListing {
	f.queries = append(f.queries, morphQuery)
	return f.listings
}

func TestPipelineSuggest(t *testing.T) {
	fetcher := &stubFetcher{listings: listingsOf("Banana Ball Python", 200, 220)}
	p := NewPipeline(fetcher, newTestLogger())

	animal := models.TargetAnimal{Morph: "Banana Ball Python", Quality: models.QualityPet, Cost: 100}
	r := p.Suggest(context.Background(), animal)

	if len(fetcher.queries) != 1 || fetcher.queries[0] != "Banana Ball Python" {
		t.Errorf("queries: got %v", fetcher.queries)
	}
	if _, err := uuid.Parse(r.RequestID); err != nil {
		t.Errorf("RequestID %q is not a UUID: %v", r.RequestID, err)
	}
	if r.Animal != animal {
		t.Errorf("Animal: got %+v", r.Animal)
	}
	if !r.Suggestion.HasPrice() || *r.Suggestion.Price != 209 {
		t.Errorf("suggestion: got %+v, want price 209", r.Suggestion)
	}
	if r.Summary == nil || r.Summary.Comparables != 2 {
		t.Errorf("summary: got %+v", r.Summary)
	}
}

func TestPipelineSummaryMatchesRationale(t *testing.T) {
	listings := append(listingsOf("Banana Ball Python", 250, 150, 400, 200), listingsOf("Corn Snake", 60)...)
	p := NewPipeline(&stubFetcher{listings: listings}, newTestLogger())

	animal := models.TargetAnimal{Morph: "Banana Ball Python", Quality: models.QualityBreeder, Cost: 100}
	r := p.Suggest(context.Background(), animal)

	if r.Summary == nil {
		t.Fatal("summary should not be nil")
	}
	want := fmt.Sprintf("Based on %d similar listings. Median: $%s.", r.Summary.Comparables, r.Summary.Median)
	if !strings.HasPrefix(r.Suggestion.Rationale, want) {
		t.Errorf("rationale %q does not agree with summary %+v", r.Suggestion.Rationale, r.Summary)
	}
	if r.Summary.Scraped != len(listings) {
		t.Errorf("Scraped: got %d, want %d", r.Summary.Scraped, len(listings))
	}
	if d := Decide(animal, listings); *d.Price != *r.Suggestion.Price {
		t.Errorf("price: pipeline %d, Decide %d", *r.Suggestion.Price, *d.Price)
	}
}

func TestPipelineIngestionFailure(t *testing.T) {
	p := NewPipeline(&stubFetcher{}, newTestLogger())
	r := p.Suggest(context.Background(), models.TargetAnimal{Morph: "Banana Ball Python", Quality: models.QualityPet, Cost: 200})

	if r.Suggestion.HasPrice() {
		t.Errorf("expected no price, got %d", *r.Suggestion.Price)
	}
	if r.Suggestion.Rationale != NoMatchRationale {
		t.Errorf("rationale: got %q", r.Suggestion.Rationale)
	}
	if r.Summary != nil {
		t.Errorf("expected nil summary, got %+v", r.Summary)
	}
}

func TestPipelineRequestIDsDiffer(t *testing.T) {
	p := NewPipeline(&stubFetcher{}, newTestLogger())
	a := p.Suggest(context.Background(), models.TargetAnimal{Morph: "x"})
	b := p.Suggest(context.Background(), models.TargetAnimal{Morph: "x"})
	if a.RequestID == b.RequestID {
		t.Errorf("request IDs should differ, both %q", a.RequestID)
	}
}
