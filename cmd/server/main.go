package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"inn-backend/internal/backup"
	"inn-backend/internal/catalog"
	"inn-backend/internal/config"
	"inn-backend/internal/handlers"
	"inn-backend/internal/health"
	h "inn-backend/internal/http"
	"inn-backend/internal/idgen"
	"inn-backend/internal/journal"
	"inn-backend/internal/logger"
	"inn-backend/internal/middleware"
	"inn-backend/internal/services"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	journalDir := flag.String("journal-dir", "", "Journal directory (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *journalDir != "" {
		cfg.Journal.Dir = *journalDir
	}

	if err := logger.Setup(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	// Open the journal store
	store, err := journal.Open(cfg.Journal.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Journal.Dir).Msg("failed to open journal store")
	}
	log.Info().Str("dir", cfg.Journal.Dir).Msg("journal store opened")

	// Initialize the ledger engine and its pure dependencies
	prices := catalog.New(cfg.Catalog.Prices)
	ids := idgen.NewRandom()
	ledgerService := services.NewLedgerService(store, prices, ids)
	reportService := services.NewReportService(ledgerService)

	// Initialize health checker
	healthChecker := health.NewHealthChecker(cfg.Journal.Dir)

	// Initialize handlers
	invoiceHandler := handlers.NewInvoiceHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Start journal backup scheduler when configured. It runs for the life
	// of the process; ListenAndServe below never returns cleanly.
	if cfg.Backup.Enabled {
		backup.NewScheduler(cfg, store).Start()
	}

	// Create router and middleware chain
	router := h.NewRouter(invoiceHandler, reportHandler, healthHandler)
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			middleware.RequestID(
				corsMiddleware(router))))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server running")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
