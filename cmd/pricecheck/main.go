// pricecheck runs one fetch-and-store pass from the command line. With no
// flags it uses the configured default route; flags override any part of
// the search.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/application/factories/infrastructure"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/config"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/infrastructure/postgres"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	origin := pflag.String("origin", "", "origin airport code")
	destination := pflag.String("destination", "", "destination airport code")
	departMin := pflag.String("depart-min", "", "earliest departure date (YYYY-MM-DD)")
	departMax := pflag.String("depart-max", "", "latest departure date (YYYY-MM-DD)")
	returnMin := pflag.String("return-min", "", "earliest return date (YYYY-MM-DD)")
	returnMax := pflag.String("return-max", "", "latest return date (YYYY-MM-DD)")
	currency := pflag.String("currency", "", "price currency (default cad)")
	limit := pflag.Int("limit", 0, "maximum number of results (default 5)")
	pflag.Parse()

	if cfg.Travelpayouts.Token == "" {
		logger.Error("TRAVELPAYOUTS_API_TOKEN is not set")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	ticketRepo := postgres.NewTicketRepository(pgPool)
	pricing := travelpayouts.NewClient(travelpayouts.Config{
		Endpoint: cfg.Travelpayouts.Endpoint,
		Token:    cfg.Travelpayouts.Token,
	})

	var events usecase.EventPublisher
	if prod := infraFactory.Kafka(); prod != nil {
		events = prod
	}

	saveUC := usecase.NewSaveTickets(ticketRepo, events)
	searchUC := usecase.NewSearchFlights(pricing, saveUC)
	priceCheckUC := usecase.NewRunPriceCheck(searchUC, cfg.PriceCheck)

	params := priceCheckUC.Params()
	overrideString(&params.Origin, *origin)
	overrideString(&params.Destination, *destination)
	overrideString(&params.DepartDateMin, *departMin)
	overrideString(&params.DepartDateMax, *departMax)
	overrideString(&params.ReturnDateMin, *returnMin)
	overrideString(&params.ReturnDateMax, *returnMax)
	overrideString(&params.Currency, *currency)
	if *limit > 0 {
		params.Limit = *limit
	}

	logger.Info("running price check",
		"origin", params.Origin, "destination", params.Destination,
		"depart", params.DepartDateMin+".."+params.DepartDateMax,
		"return", params.ReturnDateMin+".."+params.ReturnDateMax,
		"currency", params.Currency, "limit", params.Limit)

	res, err := searchUC.Execute(ctx, params)
	if err != nil {
		logger.Error("price check failed", "error", err)
		os.Exit(1)
	}

	for _, o := range res.Outcomes {
		logger.Info("ticket processed",
			"status", string(o.Status),
			"price", o.Ticket.Price,
			"outbound_flight", o.Ticket.OutboundFlight,
			"return_flight", o.Ticket.ReturnFlight,
			"reason", o.Reason)
	}

	logger.Info("price check complete",
		"fetched", len(res.Trips),
		"new_tickets", res.Stats.NewTickets,
		"duplicates", res.Stats.Duplicates)
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
