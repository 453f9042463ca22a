package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"reptile-pricer/models"
	"reptile-pricer/utils"
)

// NoSuggestionMessage is shown when no price could be computed.
const NoSuggestionMessage = "No price suggestion could be made. Try refining your morph input."

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize describes the comparable subset and median produced by Estimate
// out of scraped listings. It returns nil for an empty subset.
func (s *InsightService) Summarize(subset []models.RawListing, median decimal.Decimal, scraped int) *models.MarketSummary {
	if len(subset) == 0 {
		return nil
	}

	summary := &models.MarketSummary{
		MatchedMorph: subset[0].Morph,
		Comparables:  len(subset),
		Scraped:      scraped,
		MinPrice:     subset[0].Price,
		MaxPrice:     subset[0].Price,
		Median:       median,
	}
	for _, l := range subset {
		if l.Price < summary.MinPrice {
			summary.MinPrice = l.Price
		}
		if l.Price > summary.MaxPrice {
			summary.MaxPrice = l.Price
		}
	}
	return summary
}

// Print renders a pricing result for a terminal.
func (s *InsightService) Print(w io.Writer, r Result) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🦎 REPTILE PRICE SUGGESTION\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Animal\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Morph   : \033[1m%s\033[0m\n", r.Animal.Morph)
	fmt.Fprintf(w, "  Quality : \033[1m%s\033[0m\n", r.Animal.Quality)
	fmt.Fprintf(w, "  Cost    : \033[1m%s\033[0m\n", FormatDollars(r.Animal.Cost))
	fmt.Fprintln(w)

	if !r.Suggestion.HasPrice() {
		fmt.Fprintf(w, "  \033[1;31m%s\033[0m\n", NoSuggestionMessage)
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Fprintf(w, "  \033[1;32m💰 Suggested Price: %s\033[0m\n", FormatDollars(*r.Suggestion.Price))
	fmt.Fprintf(w, "  %s\n", r.Suggestion.Rationale)
	fmt.Fprintln(w)

	if r.Summary != nil {
		fmt.Fprintf(w, "\033[1;33m  Comparables\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  Matched morph : %s\n", r.Summary.MatchedMorph)
		fmt.Fprintf(w, "  Listings      : %d of %d scraped\n", r.Summary.Comparables, r.Summary.Scraped)
		fmt.Fprintf(w, "  Price range   : %s – %s\n",
			FormatDollars(r.Summary.MinPrice), FormatDollars(r.Summary.MaxPrice))
		fmt.Fprintf(w, "  Median        : $%s\n", r.Summary.Median.String())
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// FormatDollars renders a whole-dollar amount with thousands separators.
func FormatDollars(amount int64) string {
	return "$" + humanize.Comma(amount)
}
