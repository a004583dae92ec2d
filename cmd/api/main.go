package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/api"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/application/factories/infrastructure"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/config"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/infrastructure/postgres"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/travelpayouts"
	"github.com/EkaterinaGorbunova/aviasales-scraper/internal/usecase"
)

func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Travelpayouts.Token == "" {
		// The server still starts: health and static pages keep working,
		// price-check endpoints report a configuration error per request.
		logger.Warn("TRAVELPAYOUTS_API_TOKEN is not set; price checks will fail")
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

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Dependencies
	ticketRepo := postgres.NewTicketRepository(pgPool)
	pricing := travelpayouts.NewClient(travelpayouts.Config{
		Endpoint: cfg.Travelpayouts.Endpoint,
		Token:    cfg.Travelpayouts.Token,
	})

	var events usecase.EventPublisher
	if prod := infraFactory.Kafka(); prod != nil {
		events = prod
	}

	// UseCases
	saveUC := usecase.NewSaveTickets(ticketRepo, events)
	searchUC := usecase.NewSearchFlights(pricing, saveUC)
	priceCheckUC := usecase.NewRunPriceCheck(searchUC, cfg.PriceCheck)

	handlers := api.NewHandlers(searchUC, priceCheckUC, cfg.App.Env)
	apiHandler := api.NewRouter(handlers, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: apiHandler,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.HTTP.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
