package usecase

import (
	"context"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
)

// PricingAPI is the upstream surface the search pipeline needs.
type PricingAPI interface {
	SearchRoundTrips(ctx context.Context, p travelpayouts.Params) ([]travelpayouts.RoundTrip, error)
}

type SearchFlights struct {
	pricing PricingAPI
	save    *SaveTickets
}

func NewSearchFlights(pricing PricingAPI, save *SaveTickets) *SearchFlights {
	return &SearchFlights{pricing: pricing, save: save}
}

// SearchResult echoes the raw upstream trips alongside what the writer did
// with each of them.
type SearchResult struct {
	Trips    []travelpayouts.RoundTrip `json:"tickets"`
	Outcomes []Outcome                 `json:"outcomes"`
	Stats    Stats                     `json:"dbStats"`
}

// Execute runs the fetch-then-persist pipeline for one search.
func (uc *SearchFlights) Execute(ctx context.Context, p travelpayouts.Params) (*SearchResult, error) {
	trips, err := uc.pricing.SearchRoundTrips(ctx, p)
	if err != nil {
		return nil, err
	}

	outcomes, stats, err := uc.save.Execute(ctx, trips)
	if err != nil {
		return nil, err
	}

	return &SearchResult{Trips: trips, Outcomes: outcomes, Stats: stats}, nil
}
