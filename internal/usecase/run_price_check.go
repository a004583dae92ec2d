package usecase

import (
	"context"
	"time"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/config"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
)

const dateLayout = "2006-01-02"

// RunPriceCheck runs the search pipeline for the configured default route,
// with date windows computed relative to the current day.
type RunPriceCheck struct {
	search *SearchFlights
	cfg    config.PriceCheck
	now    func() time.Time
}

func NewRunPriceCheck(search *SearchFlights, cfg config.PriceCheck) *RunPriceCheck {
	return &RunPriceCheck{search: search, cfg: cfg, now: time.Now}
}

// Params builds the default search window: departure DaysAhead from now
// spanning WindowDays, return TripLengthDays after departure spanning the
// same window.
func (uc *RunPriceCheck) Params() travelpayouts.Params {
	departMin := uc.now().AddDate(0, 0, uc.cfg.DaysAhead)
	departMax := departMin.AddDate(0, 0, uc.cfg.WindowDays)
	returnMin := departMin.AddDate(0, 0, uc.cfg.TripLengthDays)
	returnMax := returnMin.AddDate(0, 0, uc.cfg.WindowDays)

	return travelpayouts.Params{
		Origin:        uc.cfg.Origin,
		Destination:   uc.cfg.Destination,
		DepartDateMin: departMin.Format(dateLayout),
		DepartDateMax: departMax.Format(dateLayout),
		ReturnDateMin: returnMin.Format(dateLayout),
		ReturnDateMax: returnMax.Format(dateLayout),
		Currency:      uc.cfg.Currency,
		Limit:         uc.cfg.Limit,
	}
}

func (uc *RunPriceCheck) Execute(ctx context.Context) (*SearchResult, error) {
	return uc.search.Execute(ctx, uc.Params())
}
